// Command crawler discovers recipe URLs on the configured sites and ingests
// them into the database.
//
// Usage:
//
//	crawler [--source ica|koket|all] [--limit N] [--config path]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jagiraud/mealplanner/internal/cache"
	"github.com/jagiraud/mealplanner/internal/config"
	"github.com/jagiraud/mealplanner/internal/crawl"
	"github.com/jagiraud/mealplanner/internal/discover"
	"github.com/jagiraud/mealplanner/internal/fetch"
	"github.com/jagiraud/mealplanner/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	source := flag.String("source", "all", "crawl source: ica|koket|all")
	limit := flag.Int("limit", 200, "maximum number of recipe URLs to crawl")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *limit <= 0 {
		log.Fatalf("invalid limit: %d (must be positive)", *limit)
	}

	var siteCfgs []config.SiteConfig
	switch *source {
	case "all":
		siteCfgs = cfg.Sites
	default:
		sc := cfg.Site(*source)
		if sc == nil {
			log.Fatalf("invalid source: %s (expected ica|koket|all)", *source)
		}
		siteCfgs = []config.SiteConfig{*sc}
	}

	sites := make([]discover.Site, 0, len(siteCfgs))
	for _, sc := range siteCfgs {
		site, err := discover.FromConfig(sc)
		if err != nil {
			log.Fatalf("site config failed: %v", err)
		}
		sites = append(sites, site)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("database config failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	ctx := context.Background()

	st, err := store.New(ctx, dbCfg.DSN())
	if err != nil {
		log.Fatalf("database connection failed (check POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DATABASE, POSTGRES_USER, POSTGRES_PASSWORD): %v", err)
	}
	defer st.Close()

	var crawlCache crawl.CrawlCache
	if cfg.Cache.RedisURL != "" {
		c, err := cache.New(ctx, cfg.Cache.RedisURL, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without it", "error", err)
		} else {
			defer c.Close()
			crawlCache = c
		}
	}

	fetcher := fetch.New(cfg.Fetcher)
	discoverer := discover.New(fetcher, logger, cfg.Robots.Respect)

	logger.Info("starting crawl", "source", *source, "limit", *limit)

	urls := crawl.DiscoverAll(ctx, discoverer, sites, *limit)
	logger.Info("discovered recipe urls", "count", len(urls))

	crawler := crawl.New(fetcher, st, crawlCache, logger)
	sum := crawler.Run(ctx, urls)

	logger.Info("crawl finished",
		"crawled", sum.Crawled, "inserted", sum.Inserted,
		"skipped", sum.Skipped, "errors", sum.Errors)
}
