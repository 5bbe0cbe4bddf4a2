package discover

import (
	"encoding/xml"
	"strings"
)

// sitemapIndex is a sitemap-of-sitemaps: <sitemapindex><sitemap><loc>.
type sitemapIndex struct {
	Sitemaps []sitemapRef `xml:"sitemap"`
}

type sitemapRef struct {
	Loc string `xml:"loc"`
}

// urlSet is a leaf sitemap: <urlset><url><loc>.
type urlSet struct {
	URLs []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// parseSitemap decodes a sitemap document and returns either the child
// sitemap locations (index document) or the leaf URLs. A document with
// <sitemap> entries is an index regardless of what else it contains.
func parseSitemap(body []byte) (children []string, leaves []string, err error) {
	var idx sitemapIndex
	if err := xml.Unmarshal(body, &idx); err == nil && len(idx.Sitemaps) > 0 {
		for _, s := range idx.Sitemaps {
			if s.Loc != "" {
				children = append(children, trimLoc(s.Loc))
			}
		}
		return children, nil, nil
	}

	var us urlSet
	if err := xml.Unmarshal(body, &us); err != nil {
		return nil, nil, err
	}
	for _, u := range us.URLs {
		if u.Loc != "" {
			leaves = append(leaves, trimLoc(u.Loc))
		}
	}
	return nil, leaves, nil
}

// loc values are often wrapped in whitespace inside CDATA.
func trimLoc(loc string) string {
	return strings.TrimSpace(loc)
}
