package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jagiraud/mealplanner/internal/store"
)

// GET /v1/recipes?q=&tag=&maxTime=&limit=
func (s *Server) searchRecipesHandler(c *fiber.Ctx) error {
	filter := store.SearchFilter{
		Query: c.Query("q"),
		Tag:   c.Query("tag"),
	}
	if v := c.Query("maxTime"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fail("maxTime must be a non-negative integer"))
		}
		filter.MaxTime = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fail("limit must be a non-negative integer"))
		}
		filter.Limit = n
	}

	recipes, err := s.store.SearchRecipes(c.Context(), filter)
	if err != nil {
		s.logger.Error("search recipes failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fail("internal error"))
	}
	if recipes == nil {
		recipes = []store.StoredRecipe{}
	}
	return c.JSON(ok(recipes))
}

// GET /v1/recipes/:id
func (s *Server) getRecipeHandler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fail("invalid recipe id"))
	}

	r, err := s.store.GetRecipe(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fail("recipe not found"))
	}
	if err != nil {
		s.logger.Error("get recipe failed", "recipeID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fail("internal error"))
	}
	return c.JSON(ok(r))
}

// POST /v1/mealplan
func (s *Server) mealPlanHandler(c *fiber.Ctx) error {
	var req MealPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fail("invalid request body"))
	}
	if req.Days <= 0 || req.Days > 14 {
		return c.Status(fiber.StatusBadRequest).JSON(fail("days must be between 1 and 14"))
	}

	recipes, err := s.store.RandomRecipes(c.Context(), req.Days, req.MaxCookingTime, req.Tags)
	if err != nil {
		s.logger.Error("meal plan generation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fail("internal error"))
	}
	if len(recipes) < req.Days {
		return c.JSON(ApiResponse{
			Success: true,
			Data:    recipes,
			Message: "not enough recipes match the filters for the requested number of days",
		})
	}
	return c.JSON(ok(recipes))
}
