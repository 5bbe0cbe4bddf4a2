// Package metrics defines the prometheus collectors shared by the CLIs and
// the API server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealplanner_pages_fetched_total",
		Help: "Outbound pages fetched by the crawler.",
	})

	RecipesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealplanner_recipes_inserted_total",
		Help: "Recipes inserted into the store.",
	})

	RecipesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealplanner_recipes_skipped_total",
		Help: "Recipe candidates skipped, by reason.",
	}, []string{"reason"})

	CrawlErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealplanner_crawl_errors_total",
		Help: "Per-URL crawl errors.",
	})

	IngredientsEnriched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealplanner_ingredients_enriched_total",
		Help: "Ingredient names enriched with nutrition data.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealplanner_http_requests_total",
		Help: "API requests, by method, path, and status.",
	}, []string{"method", "path", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mealplanner_http_request_duration_seconds",
		Help:    "API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
