// Package discover finds recipe page URLs for the configured crawl sources.
//
// Discovery runs in two phases per site: the sitemap tree first, then fixed
// category listing pages if the sitemap under-fills the requested count.
// Individual fetch failures are logged and skipped; a site that yields
// nothing is not an error.
package discover

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"

	"github.com/jagiraud/mealplanner/internal/fetch"
)

// Discoverer walks sitemaps and category pages through the shared
// rate-limited fetcher.
type Discoverer struct {
	fetcher       *fetch.Fetcher
	logger        *slog.Logger
	respectRobots bool
}

func New(f *fetch.Fetcher, logger *slog.Logger, respectRobots bool) *Discoverer {
	return &Discoverer{fetcher: f, logger: logger, respectRobots: respectRobots}
}

// Discover collects up to limit recipe URLs for the site.
func (d *Discoverer) Discover(ctx context.Context, site Site, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	d.logger.Info("discovering recipe urls", "site", site.Name, "limit", limit)

	var robots *robotstxt.Group
	if d.respectRobots {
		robots = d.fetchRobotsGroup(ctx, site)
	}

	urls := make([]string, 0, limit)
	seen := make(map[string]struct{})
	add := func(u string) bool {
		if len(urls) >= limit {
			return false
		}
		if _, dup := seen[u]; dup {
			return true
		}
		if robots != nil && !robots.Test(urlPath(u)) {
			return true
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
		return len(urls) < limit
	}

	d.collectFromSitemaps(ctx, site, add, func() bool { return len(urls) >= limit })

	if len(urls) < limit {
		d.logger.Info("supplementing with category page crawling", "site", site.Name, "collected", len(urls))
		d.collectFromCategories(ctx, site, add, func() bool { return len(urls) >= limit })
	}

	d.logger.Info("discovery finished", "site", site.Name, "urls", len(urls))
	return urls, nil
}

// collectFromSitemaps fetches the site's sitemap. Index documents are
// filtered to recipe-looking sub-sitemaps and recursed one level; leaf
// documents are scanned directly.
func (d *Discoverer) collectFromSitemaps(ctx context.Context, site Site, add func(string) bool, full func() bool) {
	d.logger.Info("fetching sitemap", "url", site.SitemapURL)

	body, err := d.fetcher.Fetch(ctx, site.SitemapURL)
	if err != nil {
		d.logger.Warn("failed to fetch sitemap", "url", site.SitemapURL, "error", err)
		return
	}

	children, leaves, err := parseSitemap(body)
	if err != nil {
		d.logger.Warn("failed to parse sitemap", "url", site.SitemapURL, "error", err)
		return
	}

	if len(children) == 0 {
		d.scanLeaves(site, leaves, add)
		return
	}

	candidates := filterSitemaps(children, site.SitemapFilters)
	if len(candidates) == 0 && site.FallbackAllSitemaps {
		candidates = children
	}
	d.logger.Info("sitemap index", "site", site.Name, "total", len(children), "candidates", len(candidates))

	for _, sub := range candidates {
		if full() {
			return
		}
		subBody, err := d.fetcher.Fetch(ctx, sub)
		if err != nil {
			d.logger.Warn("failed to fetch sub-sitemap", "url", sub, "error", err)
			continue
		}
		_, subLeaves, err := parseSitemap(subBody)
		if err != nil {
			d.logger.Warn("failed to parse sub-sitemap", "url", sub, "error", err)
			continue
		}
		d.scanLeaves(site, subLeaves, add)
	}
}

func (d *Discoverer) scanLeaves(site Site, leaves []string, add func(string) bool) {
	for _, loc := range leaves {
		if !site.IsRecipeURL(loc) {
			continue
		}
		if !add(loc) {
			return
		}
	}
}

func filterSitemaps(locs, filters []string) []string {
	var out []string
	for _, loc := range locs {
		for _, f := range filters {
			if strings.Contains(loc, f) {
				out = append(out, loc)
				break
			}
		}
	}
	return out
}

// collectFromCategories harvests anchor hrefs from the site's fixed category
// listing pages, resolving relative links against the site origin.
func (d *Discoverer) collectFromCategories(ctx context.Context, site Site, add func(string) bool, full func() bool) {
	base, err := url.Parse(site.Origin)
	if err != nil {
		d.logger.Warn("invalid site origin", "site", site.Name, "origin", site.Origin, "error", err)
		return
	}

	for _, catURL := range site.CategoryURLs {
		if full() {
			return
		}

		body, err := d.fetcher.Fetch(ctx, catURL)
		if err != nil {
			d.logger.Warn("failed to crawl category page", "url", catURL, "error", err)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			d.logger.Warn("failed to parse category page", "url", catURL, "error", err)
			continue
		}

		doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, ok := sel.Attr("href")
			if !ok || href == "" {
				return true
			}
			ref, err := url.Parse(href)
			if err != nil {
				return true
			}
			abs := base.ResolveReference(ref).String()
			if !site.IsRecipeURL(abs) {
				return true
			}
			return add(abs)
		})
	}
}

// urlPath reduces a URL to the path form robots rules match against.
func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// fetchRobotsGroup loads robots.txt for the site's crawl agent. Missing or
// unreadable robots data disables filtering rather than blocking the run.
func (d *Discoverer) fetchRobotsGroup(ctx context.Context, site Site) *robotstxt.Group {
	base, err := url.Parse(site.Origin)
	if err != nil {
		return nil
	}
	robotsURL := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/robots.txt"}

	body, err := d.fetcher.Fetch(ctx, robotsURL.String())
	if err != nil {
		d.logger.Warn("failed to fetch robots.txt", "site", site.Name, "error", err)
		return nil
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		d.logger.Warn("failed to parse robots.txt", "site", site.Name, "error", err)
		return nil
	}
	return data.FindGroup("MealPlannerBot")
}
