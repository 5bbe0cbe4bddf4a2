package recipe

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var durationRe = regexp.MustCompile(`(?i)^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO 8601 duration like "PT1H30M" to whole
// minutes. Seconds round up. Returns nil for malformed input and for
// durations that total zero.
func ParseDuration(s string) *int {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil
	}

	hours := atoiDefault(m[1])
	minutes := atoiDefault(m[2])
	seconds := atoiDefault(m[3])

	total := hours*60 + minutes + int(math.Ceil(float64(seconds)/60))
	if total <= 0 {
		return nil
	}
	return &total
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

var (
	nonNumericRe    = regexp.MustCompile(`[^\d.,]`)
	leadingNumberRe = regexp.MustCompile(`^\d*\.?\d+`)
)

// ParseNutritionValue extracts the numeric part of a nutrition string such
// as "250 kcal" or "12,5g". Only the first comma is a decimal separator,
// and like parseFloat only the leading numeric run counts, so stray
// punctuation after the number is ignored rather than rejecting the value.
func ParseNutritionValue(s string) *float64 {
	cleaned := nonNumericRe.ReplaceAllString(s, "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	num := leadingNumberRe.FindString(cleaned)
	if num == "" {
		return nil
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Swedish unit vocabulary. Order matters: longer units first, so "ml" never
// half-matches as "m"+"l" and "msk" wins over "m".
var units = []string{
	"msk", "tsk", "krm", "port",
	"kg", "dl", "ml", "cl", "st", "g", "l",
}

// Fraction forms come before the plain-number form: alternation is
// leftmost-first, and a bare "1" would otherwise swallow the start of "1/2".
var ingredientRe = regexp.MustCompile(
	`(?i)^(?:ca\.?\s+)?` + // optional "ca" / "ca." approximation prefix
		`(\d+\s+\d+/\d+` + // mixed fraction
		`|\d+/\d+` + // bare fraction
		`|\d+(?:[.,]\d+)?)` + // integer or decimal
		`\s*` +
		`(` + strings.Join(units, "|") + `)?` +
		`\.?\s*` +
		`(.*)$`,
)

var (
	mixedFractionRe = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	fractionRe      = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// ParseIngredient parses a Swedish ingredient line like "600 g fryst
// kyckling", "1 1/2 dl gräddfil", or "ca 4 dl vatten". Lines with no leading
// quantity become name-only; the raw text is preserved either way.
func ParseIngredient(raw string) ParsedIngredient {
	rawText := strings.TrimSpace(raw)

	m := ingredientRe.FindStringSubmatch(rawText)
	if m == nil {
		var name *string
		if rawText != "" {
			name = &rawText
		}
		return ParsedIngredient{Name: name, RawText: rawText}
	}

	out := ParsedIngredient{
		Quantity: parseQuantity(m[1]),
		RawText:  rawText,
	}
	if m[2] != "" {
		u := strings.ToLower(m[2])
		out.Unit = &u
	}
	if name := strings.TrimSpace(m[3]); name != "" {
		out.Name = &name
	}
	return out
}

// parseQuantity handles plain numbers, decimals with either separator,
// simple fractions, and mixed fractions. A zero denominator yields nil.
func parseQuantity(s string) *float64 {
	trimmed := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")

	if m := mixedFractionRe.FindStringSubmatch(trimmed); m != nil {
		whole := atoiDefault(m[1])
		num := atoiDefault(m[2])
		den := atoiDefault(m[3])
		if den == 0 {
			return nil
		}
		q := float64(whole) + float64(num)/float64(den)
		return &q
	}

	if m := fractionRe.FindStringSubmatch(trimmed); m != nil {
		num := atoiDefault(m[1])
		den := atoiDefault(m[2])
		if den == 0 {
			return nil
		}
		q := float64(num) / float64(den)
		return &q
	}

	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &n
}
