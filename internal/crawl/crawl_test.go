package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jagiraud/mealplanner/internal/config"
	"github.com/jagiraud/mealplanner/internal/discover"
	"github.com/jagiraud/mealplanner/internal/fetch"
	"github.com/jagiraud/mealplanner/internal/recipe"
)

type fakeInserter struct {
	recipes  []*recipe.Recipe
	existing map[string]bool
	err      error
}

func (f *fakeInserter) InsertRecipe(ctx context.Context, r *recipe.Recipe) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.existing[r.SourceURL] {
		return false, nil
	}
	f.recipes = append(f.recipes, r)
	return true, nil
}

type fakeCache struct {
	recent map[string]bool
	marked []string
}

func (f *fakeCache) IsRecentlyCrawled(ctx context.Context, url string) bool { return f.recent[url] }

func (f *fakeCache) MarkCrawled(ctx context.Context, url string) {
	f.marked = append(f.marked, url)
}

const recipePage = `<html><head>
<script type="application/ld+json">{
	"@type": "Recipe",
	"name": "Kycklinggryta",
	"totalTime": "PT45M",
	"recipeIngredient": ["600 g kycklingfilé", "2 msk olivolja"]
}</script>
</head><body></body></html>`

func newCrawler(t *testing.T, st RecipeInserter, cache CrawlCache) *Crawler {
	t.Helper()
	f := fetch.New(config.FetcherConfig{UserAgent: "TestBot/1.0", TimeoutMs: 5000})
	return New(f, st, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunInsertsRecipe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recipePage)
	}))
	defer srv.Close()

	st := &fakeInserter{}
	c := newCrawler(t, st, nil)

	sum := c.Run(context.Background(), []SourceURL{{URL: srv.URL + "/recept/kycklinggryta-1/", Site: "ica"}})
	if sum.Inserted != 1 || sum.Skipped != 0 || sum.Errors != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(st.recipes) != 1 {
		t.Fatalf("expected 1 stored recipe, got %d", len(st.recipes))
	}
	r := st.recipes[0]
	if r.Name != "Kycklinggryta" {
		t.Fatalf("expected recipe name Kycklinggryta, got %q", r.Name)
	}
	if len(r.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(r.Ingredients))
	}
	if r.CookingTimeMinutes == nil || *r.CookingTimeMinutes != 45 {
		t.Fatalf("expected cooking time 45, got %v", r.CookingTimeMinutes)
	}
}

func TestRunSkipsPagesWithoutStructuredData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>Ingen strukturerad data</body></html>")
	}))
	defer srv.Close()

	st := &fakeInserter{}
	c := newCrawler(t, st, nil)

	sum := c.Run(context.Background(), []SourceURL{{URL: srv.URL, Site: "ica"}})
	if sum.Skipped != 1 || sum.Inserted != 0 || sum.Errors != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRunCountsDuplicatesAsSkips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recipePage)
	}))
	defer srv.Close()

	url := srv.URL + "/recept/kycklinggryta-1/"
	st := &fakeInserter{existing: map[string]bool{url: true}}
	c := newCrawler(t, st, nil)

	sum := c.Run(context.Background(), []SourceURL{{URL: url, Site: "ica"}})
	if sum.Skipped != 1 || sum.Inserted != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, recipePage)
	}))
	defer srv.Close()

	st := &fakeInserter{}
	c := newCrawler(t, st, nil)

	sum := c.Run(context.Background(), []SourceURL{
		{URL: srv.URL + "/recept/trasig-1/", Site: "ica"},
		{URL: srv.URL + "/recept/hel-2/", Site: "ica"},
	})
	if sum.Errors != 1 || sum.Inserted != 1 {
		t.Fatalf("expected the second url to survive the first one's failure: %+v", sum)
	}
}

func TestRunStoreErrorIsPerURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recipePage)
	}))
	defer srv.Close()

	st := &fakeInserter{err: errors.New("connection reset")}
	c := newCrawler(t, st, nil)

	sum := c.Run(context.Background(), []SourceURL{{URL: srv.URL, Site: "ica"}})
	if sum.Errors != 1 {
		t.Fatalf("expected store failure to count as error: %+v", sum)
	}
}

func TestRunUsesCache(t *testing.T) {
	var fetched int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched++
		fmt.Fprint(w, recipePage)
	}))
	defer srv.Close()

	cached := srv.URL + "/recept/gammal-1/"
	fresh := srv.URL + "/recept/ny-2/"
	cache := &fakeCache{recent: map[string]bool{cached: true}}
	st := &fakeInserter{}
	c := newCrawler(t, st, cache)

	sum := c.Run(context.Background(), []SourceURL{
		{URL: cached, Site: "koket"},
		{URL: fresh, Site: "koket"},
	})
	if sum.Skipped != 1 || sum.Inserted != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if fetched != 1 {
		t.Fatalf("expected cached url to skip the fetch, got %d fetches", fetched)
	}
	if len(cache.marked) != 1 || cache.marked[0] != fresh {
		t.Fatalf("expected only the fresh url to be marked, got %v", cache.marked)
	}
}

// newLeafSite serves a leaf sitemap with n recipe urls and returns a site
// whose predicate accepts all of them.
func newLeafSite(t *testing.T, name string, n int) discover.Site {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<urlset>")
		for i := 0; i < n; i++ {
			fmt.Fprintf(w, "<url><loc>%s/recept/ratt-%d/</loc></url>", srv.URL, i)
		}
		fmt.Fprint(w, "</urlset>")
	})

	return discover.Site{
		Name:        name,
		Origin:      srv.URL,
		SitemapURL:  srv.URL + "/sitemap.xml",
		IsRecipeURL: func(u string) bool { return strings.Contains(u, "/recept/") },
	}
}

func TestDiscoverAllSplitsLimit(t *testing.T) {
	a := newLeafSite(t, "ica", 50)
	b := newLeafSite(t, "koket", 50)

	f := fetch.New(config.FetcherConfig{UserAgent: "TestBot/1.0", TimeoutMs: 5000})
	d := discover.New(f, slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	urls := DiscoverAll(context.Background(), d, []discover.Site{a, b}, 7)
	if len(urls) != 7 {
		t.Fatalf("expected 7 urls, got %d", len(urls))
	}

	// With an odd total the first site gets the extra slot.
	counts := map[string]int{}
	for _, u := range urls {
		counts[u.Site]++
	}
	if counts["ica"] != 4 || counts["koket"] != 3 {
		t.Fatalf("expected a 4/3 split, got %v", counts)
	}
}

func TestDiscoverAllSingleSiteGetsFullLimit(t *testing.T) {
	a := newLeafSite(t, "ica", 50)

	f := fetch.New(config.FetcherConfig{UserAgent: "TestBot/1.0", TimeoutMs: 5000})
	d := discover.New(f, slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	urls := DiscoverAll(context.Background(), d, []discover.Site{a}, 10)
	if len(urls) != 10 {
		t.Fatalf("expected 10 urls, got %d", len(urls))
	}
}
