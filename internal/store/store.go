// Package store is the Postgres access layer. All writes that must be
// atomic run inside a single transaction; connections are taken from a
// shared pgx pool and held only for the duration of one operation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sqlc-dev/pqtype"

	"github.com/jagiraud/mealplanner/internal/recipe"
)

type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool to the database and verifies it with a ping, so a
// misconfigured store fails at startup rather than mid-crawl.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// InsertRecipe writes a recipe and all of its ingredient lines in one
// transaction. A recipe whose source URL already exists is skipped and
// reported with inserted=false; any other failure rolls the whole insert
// back and is returned.
func (s *Store) InsertRecipe(ctx context.Context, r *recipe.Recipe) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	macros, err := macronutrientsJSON(r.Macronutrients)
	if err != nil {
		return false, err
	}

	var recipeID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO recipe (
			id, name, description, cooking_time_minutes, macronutrients,
			tags, image_url, source_url, servings, recipe_category,
			instructions, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, NULL, NOW(), NOW()
		)
		ON CONFLICT (source_url) DO NOTHING
		RETURNING id`,
		uuid.New(), r.Name, r.Description, r.CookingTimeMinutes, macros,
		r.Tags, r.ImageURL, r.SourceURL, r.Servings, r.Category,
		r.Instructions,
	).Scan(&recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Duplicate source URL; nothing to do.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, ing := range r.Ingredients {
		_, err = tx.Exec(ctx,
			`INSERT INTO recipe_ingredient (
				id, recipe_id, ingredient_id, name, raw_text, quantity, unit
			) VALUES ($1, $2, NULL, $3, $4, $5, $6)`,
			uuid.New(), recipeID, ing.Name, ing.RawText, ing.Quantity, ing.Unit,
		)
		if err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func macronutrientsJSON(m *recipe.Macronutrients) (pqtype.NullRawMessage, error) {
	if m == nil {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("marshal macronutrients: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}
