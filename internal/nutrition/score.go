package nutrition

import (
	"strings"

	"github.com/jagiraud/mealplanner/internal/config"
)

// Scorer rates how well a reference food name matches an ingredient name.
// The constants are tuning values carried in config; see NutritionConfig.
type Scorer struct {
	cfg config.NutritionConfig
}

func NewScorer(cfg config.NutritionConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Normalize lowercases and strips punctuation that the reference list uses
// inconsistently ("Kyckling, fryst" vs "kyckling fryst").
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(",", "", "(", "", ")", "").Replace(s)
	return strings.TrimSpace(s)
}

// Score returns a bounded non-negative match score. Exact normalized
// equality scores highest, containment in either direction scores fixed
// values, and otherwise the score is proportional to shared whitespace
// tokens. Disjoint names score zero.
func (sc *Scorer) Score(ingredientName, foodName string) float64 {
	a := Normalize(ingredientName)
	b := Normalize(foodName)

	if a == b {
		return sc.cfg.ExactScore
	}
	if strings.Contains(b, a) {
		return sc.cfg.ContainsScore
	}
	if strings.Contains(a, b) {
		return sc.cfg.ContainedIn
	}

	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}
	common := 0
	for _, w := range wordsA {
		if _, ok := setB[w]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}

	longest := len(wordsA)
	if len(wordsB) > longest {
		longest = len(wordsB)
	}
	return float64(common) / float64(longest) * sc.cfg.TokenScale
}

// Best returns the highest-scoring food item, or nil when the best score
// does not clear the acceptance threshold.
func (sc *Scorer) Best(ingredientName string, foods []FoodItem) (*FoodItem, float64) {
	var (
		best      *FoodItem
		bestScore float64
	)
	for i := range foods {
		if score := sc.Score(ingredientName, foods[i].Name); score > bestScore {
			bestScore = score
			best = &foods[i]
		}
	}
	if best == nil || bestScore < sc.cfg.AcceptScore {
		return nil, bestScore
	}
	return best, bestScore
}
