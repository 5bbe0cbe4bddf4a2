package recipe

// ParsedIngredient is the structured form of one free-text ingredient line.
// RawText always carries the original line; quantity, unit, and name are
// best effort and may all be empty for lines like "salt och peppar".
type ParsedIngredient struct {
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Name     *string  `json:"name"`
	RawText  string   `json:"rawText"`
}

// Macronutrients holds per-recipe macro values. Keys are fixed; individual
// values stay nil when the source page did not provide them.
type Macronutrients struct {
	Calories     *float64 `json:"calories"`
	FatGrams     *float64 `json:"fatGrams"`
	CarbGrams    *float64 `json:"carbGrams"`
	ProteinGrams *float64 `json:"proteinGrams"`
	FiberGrams   *float64 `json:"fiberGrams"`
}

// Recipe is a normalized recipe ready for storage.
type Recipe struct {
	Name               string
	Description        *string
	CookingTimeMinutes *int
	Macronutrients     *Macronutrients
	Tags               []string
	ImageURL           *string
	SourceURL          string
	Servings           *int
	Category           []string
	Instructions       []string
	Ingredients        []ParsedIngredient
}
