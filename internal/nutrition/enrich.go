package nutrition

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jagiraud/mealplanner/internal/config"
	"github.com/jagiraud/mealplanner/internal/metrics"
	"github.com/jagiraud/mealplanner/internal/store"
)

// EnrichmentStore is the slice of the store the enrichment job needs.
type EnrichmentStore interface {
	IngredientNamesNeedingNutrition(ctx context.Context) ([]store.IngredientName, error)
	UpsertIngredient(ctx context.Context, name, category string, n store.IngredientNutrition) (uuid.UUID, error)
	LinkIngredientRows(ctx context.Context, ingredientID uuid.UUID, name string) (int64, error)
}

// Job matches ingredient names against the reference food list and writes
// macro values back. It runs as a batch, independent of crawl runs.
type Job struct {
	store       EnrichmentStore
	client      *Client
	scorer      *Scorer
	logger      *slog.Logger
	detailDelay time.Duration
	dryRun      bool
}

func NewJob(st EnrichmentStore, client *Client, cfg config.NutritionConfig, logger *slog.Logger, dryRun bool) *Job {
	return &Job{
		store:       st,
		client:      client,
		scorer:      NewScorer(cfg),
		logger:      logger,
		detailDelay: time.Duration(cfg.DetailDelayMs) * time.Millisecond,
		dryRun:      dryRun,
	}
}

// Summary tallies one enrichment run.
type Summary struct {
	Candidates int
	Enriched   int
	Skipped    int
}

// Run enriches every ingredient name that still lacks nutrition data.
// Names without an acceptable match are left for a later run; that is a
// deferred decision, not a failure.
func (j *Job) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	names, err := j.store.IngredientNamesNeedingNutrition(ctx)
	if err != nil {
		return sum, err
	}
	sum.Candidates = len(names)
	j.logger.Info("ingredient names needing nutrition data", "count", len(names))
	if len(names) == 0 {
		return sum, nil
	}

	foods, err := j.client.Foods(ctx)
	if err != nil {
		return sum, err
	}
	j.logger.Info("fetched reference food list", "items", len(foods))

	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		best, score := j.scorer.Best(n.Name, foods)
		if best == nil {
			j.logger.Info("skip: no acceptable match", "ingredient", n.Name, "bestScore", score)
			sum.Skipped++
			continue
		}
		j.logger.Info("match", "ingredient", n.Name, "food", best.Name, "score", score, "foodNumber", best.Number)

		if j.dryRun {
			sum.Enriched++
			continue
		}

		if j.enrichOne(ctx, n.Name, best) {
			sum.Enriched++
			metrics.IngredientsEnriched.Inc()
		} else {
			sum.Skipped++
		}

		// Stay gentle with the reference API between detail fetches, on
		// top of the fetcher's own gate.
		select {
		case <-time.After(j.detailDelay):
		case <-ctx.Done():
			return sum, ctx.Err()
		}
	}

	j.logger.Info("enrichment finished", "enriched", sum.Enriched, "skipped", sum.Skipped)
	return sum, nil
}

// enrichOne fetches the matched food's nutrients, upserts the reference
// ingredient, and links the waiting recipe ingredient rows. Failures are
// logged and count as skips; the loop always moves on.
func (j *Job) enrichOne(ctx context.Context, name string, food *FoodItem) bool {
	values, err := j.client.Nutrients(ctx, food.Number)
	if err != nil {
		j.logger.Warn("failed to fetch nutrients", "ingredient", name, "foodNumber", food.Number, "error", err)
		return false
	}

	macros := ExtractMacros(values)
	if macros.Calories == nil && macros.Protein == nil {
		j.logger.Info("skip: no useful nutrition data", "ingredient", name)
		return false
	}

	category := food.Group
	if category == "" {
		category = "other"
	}

	id, err := j.store.UpsertIngredient(ctx, name, category, macros)
	if err != nil {
		j.logger.Warn("failed to upsert ingredient", "ingredient", name, "error", err)
		return false
	}

	linked, err := j.store.LinkIngredientRows(ctx, id, name)
	if err != nil {
		j.logger.Warn("failed to link ingredient rows", "ingredient", name, "error", err)
		return false
	}

	j.logger.Info("enriched",
		"ingredient", name, "linkedRows", linked,
		"calories", deref(macros.Calories), "protein", deref(macros.Protein),
		"carbs", deref(macros.Carbs), "fat", deref(macros.Fat), "fiber", deref(macros.Fiber))
	return true
}

func deref(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
