package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings, parsed once from the environment.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"15015"`

	PGHost     string `env:"PG_HOST" envDefault:"localhost"`
	PGPort     string `env:"PG_PORT" envDefault:"5432"`
	PGUser     string `env:"PG_USER" envDefault:"hampuff"`
	PGPassword string `env:"PG_PASSWORD"`
	PGDatabase string `env:"PG_DB" envDefault:"hampuff"`

	// SolarFeedURL is the hamqsl solar XML endpoint.
	SolarFeedURL      string        `env:"SOLAR_FEED_URL" envDefault:"http://www.hamqsl.com/solarxml.php"`
	SolarFetchTimeout time.Duration `env:"SOLAR_FETCH_TIMEOUT" envDefault:"10s"`

	// SolarCacheTTL enables a short-lived cache of the solar feed when > 0.
	// Disabled by default: the service fetches per request.
	SolarCacheTTL time.Duration `env:"SOLAR_CACHE_TTL" envDefault:"0"`

	// AdminAPIKey guards the registration admin endpoints. Empty disables the check.
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"1"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// PostgresDSN builds the connection string shared by sqlx and GORM.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
