// Package cache provides an optional redis-backed record of recently
// crawled URLs. It only saves refetching pages crawled in the recent past;
// the recipe table's source_url constraint remains the authority on
// duplicates.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type CrawlCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis using a redis:// URL. Returns an error if the URL
// is malformed or the server is unreachable.
func New(ctx context.Context, url string, ttl time.Duration) (*CrawlCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &CrawlCache{rdb: rdb, ttl: ttl}, nil
}

func (c *CrawlCache) Close() error {
	return c.rdb.Close()
}

const keyPrefix = "crawled:"

// IsRecentlyCrawled reports whether the URL was marked within the TTL
// window. Errors degrade to false so a flaky cache never blocks a crawl.
func (c *CrawlCache) IsRecentlyCrawled(ctx context.Context, url string) bool {
	n, err := c.rdb.Exists(ctx, keyPrefix+url).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// MarkCrawled records the URL with the cache TTL.
func (c *CrawlCache) MarkCrawled(ctx context.Context, url string) {
	c.rdb.Set(ctx, keyPrefix+url, 1, c.ttl)
}
