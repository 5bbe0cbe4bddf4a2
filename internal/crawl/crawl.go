// Package crawl drives the recipe ingestion pipeline: discovery, fetch,
// extraction, transformation, and storage.
package crawl

import (
	"context"
	"log/slog"

	"github.com/jagiraud/mealplanner/internal/discover"
	"github.com/jagiraud/mealplanner/internal/fetch"
	"github.com/jagiraud/mealplanner/internal/jsonld"
	"github.com/jagiraud/mealplanner/internal/metrics"
	"github.com/jagiraud/mealplanner/internal/recipe"
)

// RecipeInserter is the slice of the store the crawler needs.
type RecipeInserter interface {
	InsertRecipe(ctx context.Context, r *recipe.Recipe) (bool, error)
}

// CrawlCache marks URLs that were fetched recently so re-runs can skip them
// before spending a fetch. Implementations may be nil-free no-ops.
type CrawlCache interface {
	IsRecentlyCrawled(ctx context.Context, url string) bool
	MarkCrawled(ctx context.Context, url string)
}

// Crawler processes recipe URLs sequentially. There is no fan-out: every
// fetch, extract, transform, and insert finishes before the next URL starts,
// so outbound requests happen in strict submission order.
type Crawler struct {
	fetcher *fetch.Fetcher
	store   RecipeInserter
	cache   CrawlCache
	logger  *slog.Logger
}

func New(f *fetch.Fetcher, store RecipeInserter, cache CrawlCache, logger *slog.Logger) *Crawler {
	return &Crawler{fetcher: f, store: store, cache: cache, logger: logger}
}

// SourceURL pairs a recipe URL with the site it came from, for logging.
type SourceURL struct {
	URL  string
	Site string
}

// Summary tallies one crawl run.
type Summary struct {
	Crawled  int
	Inserted int
	Skipped  int
	Errors   int
}

type outcome int

const (
	outcomeInserted outcome = iota
	outcomeSkipped
	outcomeError
)

// DiscoverAll collects URLs for each site, splitting the total limit into
// ceiling/floor halves when crawling two sources.
func DiscoverAll(ctx context.Context, d *discover.Discoverer, sites []discover.Site, limit int) []SourceURL {
	var out []SourceURL

	for i, site := range sites {
		siteLimit := limit
		if len(sites) == 2 {
			if i == 0 {
				siteLimit = (limit + 1) / 2
			} else {
				siteLimit = limit / 2
			}
		}

		urls, err := d.Discover(ctx, site, siteLimit)
		if err != nil {
			continue
		}
		for _, u := range urls {
			out = append(out, SourceURL{URL: u, Site: site.Name})
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Run processes every URL, tolerating per-URL failures, and returns the
// final tally. Progress is logged every ten URLs and on errors.
func (c *Crawler) Run(ctx context.Context, urls []SourceURL) Summary {
	var sum Summary

	for _, src := range urls {
		sum.Crawled++

		result, reason, err := c.processURL(ctx, src.URL)
		switch result {
		case outcomeInserted:
			sum.Inserted++
			metrics.RecipesInserted.Inc()
		case outcomeSkipped:
			sum.Skipped++
			metrics.RecipesSkipped.WithLabelValues(reason).Inc()
		case outcomeError:
			sum.Errors++
			metrics.CrawlErrors.Inc()
			c.logger.Warn("crawl error", "url", src.URL, "error", err)
		}

		if sum.Crawled%10 == 0 || sum.Crawled == len(urls) || result == outcomeError {
			c.logger.Info("crawl progress",
				"crawled", sum.Crawled, "total", len(urls),
				"inserted", sum.Inserted, "skipped", sum.Skipped,
				"errors", sum.Errors, "site", src.Site)
		}
	}

	return sum
}

// processURL runs one URL through the pipeline. Missing structured data,
// rejected documents, and duplicate source URLs are skips; anything that
// fails is an error confined to this URL.
func (c *Crawler) processURL(ctx context.Context, url string) (outcome, string, error) {
	if c.cache != nil && c.cache.IsRecentlyCrawled(ctx, url) {
		return outcomeSkipped, "recently_crawled", nil
	}

	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return outcomeError, "", err
	}
	metrics.PagesFetched.Inc()

	doc, err := jsonld.ExtractRecipe(html)
	if err != nil {
		return outcomeError, "", err
	}
	if doc == nil {
		return outcomeSkipped, "no_structured_data", nil
	}

	normalized := recipe.Transform(doc, url)
	if normalized == nil {
		return outcomeSkipped, "transform_rejected", nil
	}

	inserted, err := c.store.InsertRecipe(ctx, normalized)
	if err != nil {
		return outcomeError, "", err
	}

	if c.cache != nil {
		c.cache.MarkCrawled(ctx, url)
	}
	if !inserted {
		return outcomeSkipped, "duplicate", nil
	}
	return outcomeInserted, "", nil
}
