// Package server is the read-side HTTP API over the recipe store.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jagiraud/mealplanner/internal/config"
	"github.com/jagiraud/mealplanner/internal/metrics"
	"github.com/jagiraud/mealplanner/internal/store"
)

// RecipeStore is the slice of the store the API serves from.
type RecipeStore interface {
	Ping(ctx context.Context) error
	SearchRecipes(ctx context.Context, f store.SearchFilter) ([]store.StoredRecipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*store.StoredRecipe, error)
	RandomRecipes(ctx context.Context, count, maxTime int, tags []string) ([]store.StoredRecipe, error)
}

type Server struct {
	app    *fiber.App
	config *config.Config
	store  RecipeStore
	logger *slog.Logger
}

func NewServer(cfg *config.Config, st RecipeStore, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		app:    app,
		config: cfg,
		store:  st,
		logger: logger,
	}

	// Request ID + logging + metrics middleware
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Locals("request_id", reqID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Route().Path

		metrics.HTTPRequests.WithLabelValues(method, path, fmt.Sprint(status)).Inc()
		metrics.HTTPLatency.WithLabelValues(method, path).Observe(latency.Seconds())

		if logger != nil {
			logger.Info("request",
				"request_id", reqID,
				"method", method,
				"path", c.Path(),
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}

		return err
	})

	app.Get("/healthz", s.healthHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")
	v1.Get("/recipes", s.searchRecipesHandler)
	v1.Get("/recipes/:id", s.getRecipeHandler)
	v1.Post("/mealplan", s.mealPlanHandler)

	return s
}

func (s *Server) healthHandler(c *fiber.Ctx) error {
	// Shallow health: process is up
	if c.Query("deep") != "true" {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "error"
	}

	status := "ok"
	if dbStatus != "ok" {
		status = "error"
		c.Status(fiber.StatusServiceUnavailable)
	}
	return c.JSON(fiber.Map{"status": status, "db": dbStatus})
}

func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}
