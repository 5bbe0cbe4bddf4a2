package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sqlc-dev/pqtype"

	"github.com/jagiraud/mealplanner/internal/recipe"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// StoredRecipe is a recipe row as served by the read API.
type StoredRecipe struct {
	ID                 uuid.UUID                `json:"id"`
	Name               string                   `json:"name"`
	Description        *string                  `json:"description"`
	CookingTimeMinutes *int                     `json:"cookingTimeMinutes"`
	Macronutrients     *recipe.Macronutrients   `json:"macronutrients"`
	Tags               []string                 `json:"tags"`
	ImageURL           *string                  `json:"imageUrl"`
	SourceURL          string                   `json:"sourceUrl"`
	Servings           *int                     `json:"servings"`
	Category           []string                 `json:"recipeCategory"`
	Instructions       []string                 `json:"instructions"`
	Ingredients        []StoredRecipeIngredient `json:"ingredients,omitempty"`
}

// StoredRecipeIngredient is one ingredient line of a stored recipe.
type StoredRecipeIngredient struct {
	ID           uuid.UUID  `json:"id"`
	IngredientID *uuid.UUID `json:"ingredientId"`
	Name         *string    `json:"name"`
	RawText      string     `json:"rawText"`
	Quantity     *float64   `json:"quantity"`
	Unit         *string    `json:"unit"`
}

// SearchFilter narrows recipe searches. Zero values mean "no constraint".
type SearchFilter struct {
	Query   string
	Tag     string
	MaxTime int
	Limit   int
}

const recipeColumns = `id, name, description, cooking_time_minutes, macronutrients,
	tags, image_url, source_url, servings, recipe_category, instructions`

// SearchRecipes returns recipes matching the filter, newest first.
func (s *Store) SearchRecipes(ctx context.Context, f SearchFilter) ([]StoredRecipe, error) {
	var (
		conds []string
		args  []any
	)
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	if f.MaxTime > 0 {
		args = append(args, f.MaxTime)
		conds = append(conds, fmt.Sprintf("cooking_time_minutes <= $%d", len(args)))
	}

	query := "SELECT " + recipeColumns + " FROM recipe"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

// GetRecipe fetches one recipe with its ingredient lines.
func (s *Store) GetRecipe(ctx context.Context, id uuid.UUID) (*StoredRecipe, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+recipeColumns+" FROM recipe WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrNotFound
	}
	r := recipes[0]

	ingRows, err := s.pool.Query(ctx,
		`SELECT id, ingredient_id, name, raw_text, quantity, unit
		 FROM recipe_ingredient WHERE recipe_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var ing StoredRecipeIngredient
		if err := ingRows.Scan(&ing.ID, &ing.IngredientID, &ing.Name, &ing.RawText, &ing.Quantity, &ing.Unit); err != nil {
			return nil, err
		}
		r.Ingredients = append(r.Ingredients, ing)
	}
	if err := ingRows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// RandomRecipes selects count distinct recipes matching the filters, for
// meal plan generation.
func (s *Store) RandomRecipes(ctx context.Context, count, maxTime int, tags []string) ([]StoredRecipe, error) {
	var (
		conds []string
		args  []any
	)
	if maxTime > 0 {
		args = append(args, maxTime)
		conds = append(conds, fmt.Sprintf("cooking_time_minutes <= $%d", len(args)))
	}
	if len(tags) > 0 {
		args = append(args, tags)
		conds = append(conds, fmt.Sprintf("tags && $%d", len(args)))
	}

	query := "SELECT " + recipeColumns + " FROM recipe"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, count)
	query += fmt.Sprintf(" ORDER BY random() LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

func scanRecipes(rows pgx.Rows) ([]StoredRecipe, error) {
	var out []StoredRecipe
	for rows.Next() {
		var (
			r      StoredRecipe
			macros pqtype.NullRawMessage
		)
		err := rows.Scan(
			&r.ID, &r.Name, &r.Description, &r.CookingTimeMinutes, &macros,
			&r.Tags, &r.ImageURL, &r.SourceURL, &r.Servings, &r.Category,
			&r.Instructions,
		)
		if err != nil {
			return nil, err
		}
		if macros.Valid {
			var m recipe.Macronutrients
			if err := json.Unmarshal(macros.RawMessage, &m); err != nil {
				return nil, fmt.Errorf("decode macronutrients: %w", err)
			}
			r.Macronutrients = &m
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
