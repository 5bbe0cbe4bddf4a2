// Command enrich matches crawled ingredient names against the
// Livsmedelsverket food database and writes nutrition values back.
//
// Usage:
//
//	enrich [--dry-run] [--config path]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jagiraud/mealplanner/internal/config"
	"github.com/jagiraud/mealplanner/internal/fetch"
	"github.com/jagiraud/mealplanner/internal/nutrition"
	"github.com/jagiraud/mealplanner/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	dryRun := flag.Bool("dry-run", false, "match and log without writing to the database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	dbCfg, err := config.LoadDatabaseDev()
	if err != nil {
		log.Fatalf("database config failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	ctx := context.Background()

	st, err := store.New(ctx, dbCfg.DSN())
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer st.Close()

	fetcher := fetch.New(cfg.Fetcher)
	client := nutrition.NewClient(fetcher, cfg.Nutrition.BaseURL)
	job := nutrition.NewJob(st, client, cfg.Nutrition, logger, *dryRun)

	if *dryRun {
		logger.Info("dry run: no database writes will happen")
	}

	sum, err := job.Run(ctx)
	if err != nil {
		log.Fatalf("enrichment failed: %v", err)
	}

	logger.Info("enrichment summary",
		"candidates", sum.Candidates, "enriched", sum.Enriched, "skipped", sum.Skipped)
}
