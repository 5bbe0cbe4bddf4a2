// Package nutrition links crawled ingredient names to the Livsmedelsverket
// open food database (CC BY 4.0) by approximate string matching.
package nutrition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jagiraud/mealplanner/internal/fetch"
)

// FoodItem is one entry of the reference food list.
type FoodItem struct {
	Number         int    `json:"nummer"`
	Name           string `json:"namn"`
	ScientificName string `json:"vetenskapligtNamn"`
	Group          string `json:"grupp"`
}

// NutrientValue is one nutrient of a food item's breakdown.
type NutrientValue struct {
	Name         string  `json:"namn"`
	Abbreviation string  `json:"forkortning"`
	Value        float64 `json:"varde"`
	Unit         string  `json:"enhet"`
}

// Client fetches the reference data through the shared rate-limited fetcher,
// so nutrition traffic obeys the same clock as the crawler's.
type Client struct {
	fetcher *fetch.Fetcher
	baseURL string
}

func NewClient(f *fetch.Fetcher, baseURL string) *Client {
	return &Client{fetcher: f, baseURL: baseURL}
}

// Foods downloads the entire reference food list. The matcher scores
// against the whole list in memory, one download per run, instead of doing
// a lookup per ingredient.
func (c *Client) Foods(ctx context.Context) ([]FoodItem, error) {
	body, err := c.fetcher.Fetch(ctx, c.baseURL+"/livsmedel")
	if err != nil {
		return nil, fmt.Errorf("fetch food list: %w", err)
	}
	var items []FoodItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode food list: %w", err)
	}
	return items, nil
}

// Nutrients fetches the nutrient breakdown for one food item.
func (c *Client) Nutrients(ctx context.Context, number int) ([]NutrientValue, error) {
	body, err := c.fetcher.Fetch(ctx, fmt.Sprintf("%s/livsmedel/%d/naringsvarden", c.baseURL, number))
	if err != nil {
		return nil, fmt.Errorf("fetch nutrients for %d: %w", number, err)
	}
	var values []NutrientValue
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("decode nutrients for %d: %w", number, err)
	}
	return values, nil
}
