package jsonld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(blocks ...string) []byte {
	html := "<html><head>"
	for _, b := range blocks {
		html += `<script type="application/ld+json">` + b + `</script>`
	}
	html += "</head><body><h1>Recept</h1></body></html>"
	return []byte(html)
}

func TestExtractRecipeTopLevel(t *testing.T) {
	doc, err := ExtractRecipe(page(`{
		"@context": "https://schema.org",
		"@type": "Recipe",
		"name": "Köttbullar",
		"recipeIngredient": ["500 g köttfärs", "1 ägg"]
	}`))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Köttbullar", doc.Name)
	assert.Equal(t, []string{"500 g köttfärs", "1 ägg"}, doc.RecipeIngredient)
}

func TestExtractRecipeFromGraph(t *testing.T) {
	doc, err := ExtractRecipe(page(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "ICA"},
			{"@type": "Recipe", "name": "Pannkakor"}
		]
	}`))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Pannkakor", doc.Name)
}

func TestExtractRecipeFromArray(t *testing.T) {
	doc, err := ExtractRecipe(page(`[
		{"@type": "BreadcrumbList"},
		{"@type": "Recipe", "name": "Lax i ugn"}
	]`))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Lax i ugn", doc.Name)
}

func TestExtractRecipeTypeList(t *testing.T) {
	doc, err := ExtractRecipe(page(`{"@type": ["Recipe", "NewsArticle"], "name": "Tacos"}`))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Tacos", doc.Name)
}

func TestExtractRecipeSkipsMalformedBlocks(t *testing.T) {
	doc, err := ExtractRecipe(page(
		`{not valid json`,
		`{"@type": "Recipe", "name": "Risotto"}`,
	))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Risotto", doc.Name)
}

func TestExtractRecipeFirstWins(t *testing.T) {
	doc, err := ExtractRecipe(page(
		`{"@type": "Recipe", "name": "Första"}`,
		`{"@type": "Recipe", "name": "Andra"}`,
	))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Första", doc.Name)
}

func TestExtractRecipeNone(t *testing.T) {
	doc, err := ExtractRecipe(page(`{"@type": "WebSite", "name": "ICA"}`))
	require.NoError(t, err)
	assert.Nil(t, doc)

	doc, err = ExtractRecipe([]byte("<html><body>inga script-taggar</body></html>"))
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestExtractRecipePolymorphicFields(t *testing.T) {
	doc, err := ExtractRecipe(page(`{
		"@type": "Recipe",
		"name": "Gratäng",
		"recipeYield": 4,
		"image": {"@type": "ImageObject", "url": "https://example.com/g.jpg"},
		"recipeInstructions": [
			{"@type": "HowToStep", "text": "Sätt ugnen på 225 grader."},
			"Grädda i 20 minuter."
		],
		"nutrition": {"@type": "NutritionInformation", "calories": "310 kcal"}
	}`))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, float64(4), doc.RecipeYield)
	require.Len(t, doc.RecipeInstructions, 2)
	require.NotNil(t, doc.Nutrition)
	assert.Equal(t, "310 kcal", doc.Nutrition.Calories)
}
