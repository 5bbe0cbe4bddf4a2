package store

import (
	"context"

	"github.com/google/uuid"
)

// IngredientName is a distinct ingredient name together with how many
// recipe lines use it.
type IngredientName struct {
	Name  string
	Count int64
}

// IngredientNamesNeedingNutrition returns the distinct ingredient names that
// are either unlinked to a reference ingredient or linked to one without
// calorie data, most frequently used first.
func (s *Store) IngredientNamesNeedingNutrition(ctx context.Context) ([]IngredientName, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ri.name, COUNT(*) AS count
		 FROM recipe_ingredient ri
		 LEFT JOIN ingredient i ON ri.ingredient_id = i.id
		 WHERE ri.name IS NOT NULL
		   AND (ri.ingredient_id IS NULL OR i.calories IS NULL)
		 GROUP BY ri.name
		 ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IngredientName
	for rows.Next() {
		var n IngredientName
		if err := rows.Scan(&n.Name, &n.Count); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// IngredientNutrition carries reference macro values per 100g.
type IngredientNutrition struct {
	Calories *float64
	Protein  *float64
	Carbs    *float64
	Fat      *float64
	Fiber    *float64
}

// UpsertIngredient creates or updates a reference ingredient row by name.
// On conflict, incoming non-null values win and existing values survive
// incoming nulls, so repeated enrichment runs only ever add information.
func (s *Store) UpsertIngredient(ctx context.Context, name, category string, n IngredientNutrition) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO ingredient (id, name, category, unit, calories, protein, carbs, fat, fiber)
		 VALUES ($1, $2, $3, 'g', $4, $5, $6, $7, $8)
		 ON CONFLICT (name) DO UPDATE SET
		   calories = COALESCE(EXCLUDED.calories, ingredient.calories),
		   protein  = COALESCE(EXCLUDED.protein, ingredient.protein),
		   carbs    = COALESCE(EXCLUDED.carbs, ingredient.carbs),
		   fat      = COALESCE(EXCLUDED.fat, ingredient.fat),
		   fiber    = COALESCE(EXCLUDED.fiber, ingredient.fiber)
		 RETURNING id`,
		uuid.New(), name, category, n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber,
	).Scan(&id)
	return id, err
}

// LinkIngredientRows points all currently-unlinked recipe ingredient rows
// with this exact name at the reference ingredient. Returns the number of
// rows linked.
func (s *Store) LinkIngredientRows(ctx context.Context, ingredientID uuid.UUID, name string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE recipe_ingredient SET ingredient_id = $1
		 WHERE name = $2 AND ingredient_id IS NULL`,
		ingredientID, name)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
