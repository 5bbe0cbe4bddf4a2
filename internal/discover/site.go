package discover

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jagiraud/mealplanner/internal/config"
)

// Site bundles one source's discovery policy: where its sitemap and category
// pages live, how sub-sitemaps are filtered, and which URLs count as recipe
// pages. The two supported sites diverge on purpose (see FallbackAllSitemaps);
// keeping them as separate values rather than branches makes that visible.
type Site struct {
	Name       string
	Origin     string
	SitemapURL string
	// SitemapFilters selects sub-sitemaps from an index by substring.
	SitemapFilters []string
	// FallbackAllSitemaps retries with every sub-sitemap when the filters
	// match none. Koket enables this; ICA does not.
	FallbackAllSitemaps bool
	CategoryURLs        []string
	// IsRecipeURL is the site-specific recipe page predicate.
	IsRecipeURL func(string) bool
}

// FromConfig builds a Site by pairing the configured policy with the coded
// URL predicate for that site name.
func FromConfig(sc config.SiteConfig) (Site, error) {
	pred, ok := predicates[sc.Name]
	if !ok {
		return Site{}, fmt.Errorf("unknown site %q", sc.Name)
	}
	return Site{
		Name:                sc.Name,
		Origin:              sc.Origin,
		SitemapURL:          sc.SitemapURL,
		SitemapFilters:      sc.SitemapFilters,
		FallbackAllSitemaps: sc.FallbackAllSitemaps,
		CategoryURLs:        sc.CategoryURLs,
		IsRecipeURL:         pred,
	}, nil
}

var predicates = map[string]func(string) bool{
	"ica":   IsICARecipeURL,
	"koket": IsKoketRecipeURL,
}

// ICA recipe pages live under /recept/ and end in a numeric id segment,
// e.g. https://www.ica.se/recept/kycklinggryta-med-curry-724638/. Category
// listings under /recept/ lack the id suffix and are rejected.
var icaRecipeRe = regexp.MustCompile(`^https://www\.ica\.se/recept/[a-z0-9-]+-\d+/?$`)

func IsICARecipeURL(raw string) bool {
	return icaRecipeRe.MatchString(raw)
}

// Koket recipe slugs sit directly under the site root as a single hyphenated
// segment, e.g. https://www.koket.se/krispig-blomkal-med-romsas. Everything
// under a known section prefix is a listing or editorial page, not a recipe.
var koketExcludePrefixes = []string{
	"/recept/",
	"/mat-och-dryck/",
	"/vin/",
	"/inspiration/",
	"/videorecept/",
	"/blogg/",
	"/om-koket/",
	"/sok/",
	"/ingrediens/",
}

func IsKoketRecipeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Hostname() != "www.koket.se" {
		return false
	}

	path := u.Path
	if path == "" || path == "/" {
		return false
	}
	for _, prefix := range koketExcludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) != 1 {
		return false
	}
	// Recipe slugs are multi-word.
	return strings.Contains(segments[0], "-")
}
