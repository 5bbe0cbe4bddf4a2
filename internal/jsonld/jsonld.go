// Package jsonld locates schema.org Recipe objects embedded in HTML pages.
package jsonld

import (
	"bytes"
	"encoding/json"

	"github.com/PuerkitoBio/goquery"
)

// Recipe mirrors the schema.org/Recipe fields the pipeline consumes. Several
// fields are polymorphic in the wild (string vs list vs object), so they are
// kept as `any` here and normalized by the transformer.
type Recipe struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Image              any        `json:"image"`
	URL                string     `json:"url"`
	TotalTime          string     `json:"totalTime"`
	CookTime           string     `json:"cookTime"`
	PrepTime           string     `json:"prepTime"`
	CookingMethod      string     `json:"cookingMethod"`
	RecipeCategory     any        `json:"recipeCategory"`
	RecipeYield        any        `json:"recipeYield"`
	RecipeIngredient   []string   `json:"recipeIngredient"`
	RecipeInstructions []any      `json:"recipeInstructions"`
	Nutrition          *Nutrition `json:"nutrition"`
}

// Nutrition values arrive as strings with unit suffixes ("250 kcal") or as
// bare numbers depending on the site.
type Nutrition struct {
	Calories            any `json:"calories"`
	FatContent          any `json:"fatContent"`
	CarbohydrateContent any `json:"carbohydrateContent"`
	ProteinContent      any `json:"proteinContent"`
	FiberContent        any `json:"fiberContent"`
}

// ExtractRecipe scans all ld+json script blocks in document order and
// returns the first Recipe-typed object, or nil if the page has none.
// Blocks that fail to parse are skipped. For each parsed block it checks,
// in order: an @graph wrapper, the top-level object itself, and a top-level
// array.
func ExtractRecipe(html []byte) (*Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	var found *Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return true
		}

		switch v := data.(type) {
		case map[string]any:
			if graph, ok := v["@graph"].([]any); ok {
				for _, item := range graph {
					if m, ok := item.(map[string]any); ok && isRecipeType(m) {
						found = decodeRecipe(m)
						return found == nil
					}
				}
			}
			if isRecipeType(v) {
				found = decodeRecipe(v)
				return found == nil
			}
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok && isRecipeType(m) {
					found = decodeRecipe(m)
					return found == nil
				}
			}
		}
		return true
	})

	return found, nil
}

// isRecipeType reports whether the object's @type equals or includes "Recipe".
func isRecipeType(obj map[string]any) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == "Recipe"
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func decodeRecipe(m map[string]any) *Recipe {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var r Recipe
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil
	}
	return &r
}
