package recipe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jagiraud/mealplanner/internal/jsonld"
)

var digitsRe = regexp.MustCompile(`(\d+)`)

// Transform maps an extracted JSON-LD recipe plus its source URL into a
// normalized Recipe. A document without a name is rejected; everything else
// degrades field by field.
func Transform(doc *jsonld.Recipe, sourceURL string) *Recipe {
	if doc == nil || doc.Name == "" {
		return nil
	}

	out := &Recipe{
		Name:      doc.Name,
		SourceURL: sourceURL,
	}

	if desc := strings.TrimSpace(doc.Description); desc != "" {
		out.Description = &desc
	}

	out.ImageURL = imageURL(doc.Image)

	// Prefer totalTime, fall back to cookTime.
	if t := ParseDuration(doc.TotalTime); t != nil {
		out.CookingTimeMinutes = t
	} else if t := ParseDuration(doc.CookTime); t != nil {
		out.CookingTimeMinutes = t
	}

	if n := doc.Nutrition; n != nil {
		out.Macronutrients = &Macronutrients{
			Calories:     nutritionValue(n.Calories),
			FatGrams:     nutritionValue(n.FatContent),
			CarbGrams:    nutritionValue(n.CarbohydrateContent),
			ProteinGrams: nutritionValue(n.ProteinContent),
			FiberGrams:   nutritionValue(n.FiberContent),
		}
	}

	if doc.RecipeYield != nil {
		if m := digitsRe.FindStringSubmatch(anyToString(doc.RecipeYield)); m != nil {
			n := atoiDefault(m[1])
			out.Servings = &n
		}
	}

	out.Category = splitTokens(doc.RecipeCategory)

	// Tags are the category tokens plus comma-split cooking methods,
	// de-duplicated in insertion order.
	tags := append([]string{}, out.Category...)
	tags = append(tags, splitTokens(doc.CookingMethod)...)
	out.Tags = dedupe(tags)

	for _, step := range doc.RecipeInstructions {
		text := instructionText(step)
		if text != "" {
			out.Instructions = append(out.Instructions, text)
		}
	}

	for _, raw := range doc.RecipeIngredient {
		out.Ingredients = append(out.Ingredients, ParseIngredient(raw))
	}

	return out
}

// imageURL picks the first usable URL out of the polymorphic image field:
// a plain string, the first string of a list, or an object's url member.
func imageURL(image any) *string {
	switch v := image.(type) {
	case string:
		if v != "" {
			return &v
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok && s != "" {
				return &s
			}
		}
	case map[string]any:
		if s, ok := v["url"].(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

func nutritionValue(v any) *float64 {
	if v == nil {
		return nil
	}
	return ParseNutritionValue(anyToString(v))
}

// splitTokens flattens a string-or-list field into comma-split, trimmed,
// non-empty tokens.
func splitTokens(v any) []string {
	var out []string
	appendSplit := func(s string) {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}

	switch t := v.(type) {
	case string:
		appendSplit(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				appendSplit(s)
			}
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// instructionText normalizes a step that is either a raw string or a
// HowToStep-style object with a text field.
func instructionText(step any) string {
	switch v := step.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if s, ok := v["text"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so digit scanning works.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
