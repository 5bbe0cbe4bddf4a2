package nutrition

import (
	"strings"

	"github.com/jagiraud/mealplanner/internal/store"
)

// ExtractMacros picks the five macro fields out of a nutrient breakdown.
// Each field matches on the Livsmedelsverket abbreviation code first, then
// on a name substring; the first matching entry wins and a field with no
// match stays nil.
func ExtractMacros(values []NutrientValue) store.IngredientNutrition {
	var out store.IngredientNutrition

	for i := range values {
		v := values[i]
		abbr := strings.ToLower(v.Abbreviation)
		name := strings.ToLower(v.Name)

		switch {
		case out.Calories == nil && (abbr == "ener" || (strings.Contains(name, "energi") && v.Unit == "kcal")):
			out.Calories = &values[i].Value
		case out.Protein == nil && (abbr == "prot" || strings.Contains(name, "protein")):
			out.Protein = &values[i].Value
		case out.Carbs == nil && (abbr == "kolh" || strings.Contains(name, "kolhydrat")):
			out.Carbs = &values[i].Value
		case out.Fat == nil && (abbr == "fett" || name == "fett"):
			out.Fat = &values[i].Value
		case out.Fiber == nil && (abbr == "fibe" || strings.Contains(name, "fiber")):
			out.Fiber = &values[i].Value
		}
	}

	return out
}
