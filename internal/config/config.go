package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type FetcherConfig struct {
	UserAgent      string `yaml:"userAgent"`
	AcceptLanguage string `yaml:"acceptLanguage"`
	MinDelayMs     int    `yaml:"minDelayMs"`
	TimeoutMs      int    `yaml:"timeoutMs"`
}

// SiteConfig describes one crawl source. The URL predicate itself is code
// (see internal/discover); everything that is policy rather than parsing
// lives here so the per-site divergence stays visible.
type SiteConfig struct {
	Name                string   `yaml:"name"`
	Origin              string   `yaml:"origin"`
	SitemapURL          string   `yaml:"sitemapUrl"`
	SitemapFilters      []string `yaml:"sitemapFilters"`
	FallbackAllSitemaps bool     `yaml:"fallbackAllSitemaps"`
	CategoryURLs        []string `yaml:"categoryUrls"`
}

type RobotsConfig struct {
	Respect bool `yaml:"respect"`
}

// NutritionConfig holds the reference API location and the match scoring
// constants. The scores are tuning values, not architecture; they default to
// the values the matcher was calibrated with.
type NutritionConfig struct {
	BaseURL       string  `yaml:"baseURL"`
	DetailDelayMs int     `yaml:"detailDelayMs"`
	AcceptScore   float64 `yaml:"acceptScore"`
	ExactScore    float64 `yaml:"exactScore"`
	ContainsScore float64 `yaml:"containsScore"`
	ContainedIn   float64 `yaml:"containedInScore"`
	TokenScale    float64 `yaml:"tokenScale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CacheConfig struct {
	RedisURL string `yaml:"redisUrl"`
	TTLHours int    `yaml:"ttlHours"`
}

type Config struct {
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Robots    RobotsConfig    `yaml:"robots"`
	Sites     []SiteConfig    `yaml:"sites"`
	Nutrition NutritionConfig `yaml:"nutrition"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
}

// Default returns the built-in configuration. Load overlays a yaml file on
// top of it, so a missing or partial file still yields a runnable config.
func Default() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			UserAgent:      "MealPlannerBot/1.0 (recipe-crawler; educational project)",
			AcceptLanguage: "sv-SE,sv;q=0.9,en;q=0.5",
			MinDelayMs:     1500,
			TimeoutMs:      30000,
		},
		Robots: RobotsConfig{Respect: true},
		Sites: []SiteConfig{
			{
				Name:           "ica",
				Origin:         "https://www.ica.se",
				SitemapURL:     "https://www.ica.se/sitemap.xml",
				SitemapFilters: []string{"recept", "recipe"},
				CategoryURLs: []string{
					"https://www.ica.se/recept/middag/",
					"https://www.ica.se/recept/lunch/",
					"https://www.ica.se/recept/frukost/",
					"https://www.ica.se/recept/efterratt/",
					"https://www.ica.se/recept/vegetariskt/",
					"https://www.ica.se/recept/fisk-och-skaldjur/",
					"https://www.ica.se/recept/kyckling/",
					"https://www.ica.se/recept/pasta/",
					"https://www.ica.se/recept/soppor/",
					"https://www.ica.se/recept/sallad/",
					"https://www.ica.se/recept/bakning/",
				},
			},
			{
				Name:                "koket",
				Origin:              "https://www.koket.se",
				SitemapURL:          "https://www.koket.se/sitemap.xml",
				SitemapFilters:      []string{"recept", "recipe", "koket"},
				FallbackAllSitemaps: true,
				CategoryURLs: []string{
					"https://www.koket.se/recept/middag",
					"https://www.koket.se/recept/lunch",
					"https://www.koket.se/recept/frukost",
					"https://www.koket.se/recept/dessert",
					"https://www.koket.se/recept/vegetariskt",
					"https://www.koket.se/recept/fisk",
					"https://www.koket.se/recept/kyckling",
					"https://www.koket.se/recept/pasta",
					"https://www.koket.se/recept/soppa",
					"https://www.koket.se/recept/sallad",
					"https://www.koket.se/recept/bakning",
				},
			},
		},
		Nutrition: NutritionConfig{
			BaseURL:       "https://dataportal.livsmedelsverket.se/api/v1",
			DetailDelayMs: 200,
			AcceptScore:   30,
			ExactScore:    100,
			ContainsScore: 80,
			ContainedIn:   60,
			TokenScale:    50,
		},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Cache:  CacheConfig{TTLHours: 48},
	}
}

// Load reads the yaml config at path over the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Site returns the site config with the given name, or nil.
func (c *Config) Site(name string) *SiteConfig {
	for i := range c.Sites {
		if c.Sites[i].Name == name {
			return &c.Sites[i]
		}
	}
	return nil
}

func (f FetcherConfig) MinDelay() time.Duration {
	return time.Duration(f.MinDelayMs) * time.Millisecond
}

func (f FetcherConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutMs) * time.Millisecond
}
