// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
)

// localeCodeRe matches locale codes such as "en", "pt-br", "zh-hant".
// Codes are always matched as whole values, never by length.
var localeCodeRe = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})?$`)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LINGUA_DB_PATH" envDefault:"./data/lingua.db"`
	ServerHost string `env:"LINGUA_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LINGUA_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LINGUA_ENV" envDefault:"development"`
	LogLevel   string `env:"LINGUA_LOG_LEVEL" envDefault:"info"`

	// Locale configuration. The supported set is ordered; exactly one
	// default; the fallback locale is the last resort of the content
	// fallback chain (defaults to the default locale when empty).
	Locales        []string `env:"LINGUA_LOCALES" envSeparator:"," envDefault:"en,pt,fr,jp"`
	DefaultLocale  string   `env:"LINGUA_DEFAULT_LOCALE" envDefault:"en"`
	FallbackLocale string   `env:"LINGUA_FALLBACK_LOCALE"`

	// Cache configuration
	RedisURL    string `env:"LINGUA_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix string `env:"LINGUA_CACHE_PREFIX" envDefault:"lingua:"` // Redis key prefix
	CacheTTL    int    `env:"LINGUA_CACHE_TTL" envDefault:"1800"`       // Default cache TTL in seconds

	// Write API rate limiting (requests per second per client IP, with burst)
	WriteRateLimit float64 `env:"LINGUA_WRITE_RATE_LIMIT" envDefault:"10"`
	WriteRateBurst int     `env:"LINGUA_WRITE_RATE_BURST" envDefault:"20"`

	// Seeding configuration
	DoSeed bool `env:"LINGUA_DO_SEED" envDefault:"false"` // Enable sample content seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
// Locale-set membership (default in supported set, no duplicates) is
// validated by the locale registry at startup; Load only rejects codes
// that are syntactically broken.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for i, code := range cfg.Locales {
		code = strings.ToLower(strings.TrimSpace(code))
		if !localeCodeRe.MatchString(code) {
			return nil, fmt.Errorf("LINGUA_LOCALES contains malformed locale code %q", cfg.Locales[i])
		}
		cfg.Locales[i] = code
	}
	cfg.DefaultLocale = strings.ToLower(strings.TrimSpace(cfg.DefaultLocale))
	cfg.FallbackLocale = strings.ToLower(strings.TrimSpace(cfg.FallbackLocale))

	if cfg.WriteRateLimit <= 0 {
		return nil, fmt.Errorf("LINGUA_WRITE_RATE_LIMIT must be positive, got %v", cfg.WriteRateLimit)
	}

	return cfg, nil
}
