package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagiraud/mealplanner/internal/jsonld"
)

func fixtureDoc() *jsonld.Recipe {
	return &jsonld.Recipe{
		Name:        "Kycklinggryta med curry",
		Description: " Krämig gryta med kyckling. ",
		Image:       []any{"https://example.com/bild.jpg", "https://example.com/bild2.jpg"},
		TotalTime:   "PT45M",
		CookTime:    "PT30M",
		RecipeYield: "4 portioner",
		RecipeCategory: []any{"Middag", "Gryta"},
		CookingMethod:  "Middag, Stekning",
		RecipeIngredient: []string{
			"600 g kycklingfilé",
			"2 msk olivolja",
		},
		RecipeInstructions: []any{
			"Skär kycklingen i bitar.",
			map[string]any{"@type": "HowToStep", "text": "Stek i olja."},
		},
		Nutrition: &jsonld.Nutrition{
			Calories:            "450 kcal",
			FatContent:          "22 g",
			CarbohydrateContent: "18,5 g",
			ProteinContent:      "42 g",
			FiberContent:        "3 g",
		},
	}
}

func TestTransform(t *testing.T) {
	got := Transform(fixtureDoc(), "https://www.ica.se/recept/kycklinggryta-724638/")
	require.NotNil(t, got)

	assert.Equal(t, "Kycklinggryta med curry", got.Name)
	assert.Equal(t, "https://www.ica.se/recept/kycklinggryta-724638/", got.SourceURL)

	require.NotNil(t, got.Description)
	assert.Equal(t, "Krämig gryta med kyckling.", *got.Description)

	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "https://example.com/bild.jpg", *got.ImageURL)

	// totalTime wins over cookTime
	require.NotNil(t, got.CookingTimeMinutes)
	assert.Equal(t, 45, *got.CookingTimeMinutes)

	require.NotNil(t, got.Servings)
	assert.Equal(t, 4, *got.Servings)

	assert.Equal(t, []string{"Middag", "Gryta"}, got.Category)
	assert.Equal(t, []string{"Middag", "Gryta", "Stekning"}, got.Tags)

	assert.Equal(t, []string{"Skär kycklingen i bitar.", "Stek i olja."}, got.Instructions)

	require.Len(t, got.Ingredients, 2)
	require.NotNil(t, got.Ingredients[0].Quantity)
	assert.Equal(t, 600.0, *got.Ingredients[0].Quantity)
	assert.Equal(t, "600 g kycklingfilé", got.Ingredients[0].RawText)

	require.NotNil(t, got.Macronutrients)
	m := got.Macronutrients
	require.NotNil(t, m.Calories)
	assert.Equal(t, 450.0, *m.Calories)
	require.NotNil(t, m.CarbGrams)
	assert.Equal(t, 18.5, *m.CarbGrams)
	require.NotNil(t, m.FatGrams)
	require.NotNil(t, m.ProteinGrams)
	require.NotNil(t, m.FiberGrams)
}

func TestTransformRejectsNamelessDocument(t *testing.T) {
	assert.Nil(t, Transform(nil, "https://example.com"))
	assert.Nil(t, Transform(&jsonld.Recipe{}, "https://example.com"))
}

func TestTransformCookTimeFallback(t *testing.T) {
	doc := &jsonld.Recipe{Name: "Soppa", CookTime: "PT20M"}
	got := Transform(doc, "https://example.com/soppa")
	require.NotNil(t, got)
	require.NotNil(t, got.CookingTimeMinutes)
	assert.Equal(t, 20, *got.CookingTimeMinutes)
}

func TestTransformNoNutritionStaysNil(t *testing.T) {
	doc := &jsonld.Recipe{Name: "Soppa"}
	got := Transform(doc, "https://example.com/soppa")
	require.NotNil(t, got)
	assert.Nil(t, got.Macronutrients)
	assert.Nil(t, got.CookingTimeMinutes)
	assert.Nil(t, got.Servings)
}

func TestTransformPartialNutrition(t *testing.T) {
	doc := &jsonld.Recipe{
		Name:      "Sallad",
		Nutrition: &jsonld.Nutrition{Calories: "120 kcal"},
	}
	got := Transform(doc, "https://example.com/sallad")
	require.NotNil(t, got)
	require.NotNil(t, got.Macronutrients)
	require.NotNil(t, got.Macronutrients.Calories)
	assert.Equal(t, 120.0, *got.Macronutrients.Calories)
	assert.Nil(t, got.Macronutrients.FatGrams)
}

func TestTransformNumericYield(t *testing.T) {
	doc := &jsonld.Recipe{Name: "Paj", RecipeYield: float64(6)}
	got := Transform(doc, "https://example.com/paj")
	require.NotNil(t, got)
	require.NotNil(t, got.Servings)
	assert.Equal(t, 6, *got.Servings)
}
