package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres connection parameters. They come from the
// environment (optionally via a .env file), never from the yaml config, so
// credentials stay out of checked-in files.
type DatabaseConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     int    `mapstructure:"POSTGRES_PORT"`
	Database string `mapstructure:"POSTGRES_DATABASE"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	SSL      bool   `mapstructure:"POSTGRES_SSL"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	// A .env file is a development convenience only.
	_ = v.ReadInConfig()

	for _, key := range []string{
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DATABASE",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_SSL",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// LoadDatabase reads Postgres settings from the environment and fails when a
// required parameter is missing. The crawler uses this loader: pointing a
// bulk crawl at a silently-defaulted database is never what anyone wants.
func LoadDatabase() (*DatabaseConfig, error) {
	v := newViper()
	v.SetDefault("POSTGRES_PORT", 5432)

	var cfg DatabaseConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("read database config: %w", err)
	}

	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Database == "" {
		missing = append(missing, "POSTGRES_DATABASE")
	}
	if cfg.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if cfg.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required database settings: %v", missing)
	}
	return &cfg, nil
}

// LoadDatabaseDev reads Postgres settings from the environment, falling back
// to local development defaults. The enrichment job uses this loader; it is
// routinely run against a local database and should work out of the box.
func LoadDatabaseDev() (*DatabaseConfig, error) {
	v := newViper()
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_DATABASE", "mealplanner_dev")
	v.SetDefault("POSTGRES_USER", "mealplanner")
	v.SetDefault("POSTGRES_PASSWORD", "dev_password_123")

	var cfg DatabaseConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("read database config: %w", err)
	}
	return &cfg, nil
}

// DSN renders the config as a postgres:// connection string for pgx.
func (d *DatabaseConfig) DSN() string {
	sslmode := "disable"
	if d.SSL {
		sslmode = "require"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}
