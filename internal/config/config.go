// Package config loads application configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for one scraper invocation.
// There are no CLI flags; one invocation performs exactly one poll cycle.
type Config struct {
	// DatabaseURL is the PostgreSQL DSN. Required.
	DatabaseURL string

	// UserAgent identifies the application to SEC per their fair access
	// policy: "AppName/Version (contact@example.com)". Required.
	UserAgent string

	// FeedURL overrides the EDGAR current-events feed. Empty means default.
	FeedURL string

	// Workers bounds the per-filing worker pool.
	Workers int

	// HTTPTimeout bounds every external lookup.
	HTTPTimeout time.Duration

	// RateLimit caps outbound SEC requests per second.
	RateLimit float64

	// MetricsAddr is the Prometheus listen address. Empty disables it.
	MetricsAddr string
}

// Defaults for optional settings.
const (
	DefaultWorkers     = 4
	DefaultHTTPTimeout = 10 * time.Second
	DefaultRateLimit   = 8.0
)

// Load reads configuration from the environment, after loading .env if one
// exists. Missing required settings are an error.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		UserAgent:   os.Getenv("SEC_USER_AGENT"),
		FeedURL:     os.Getenv("SEC_FEED_URL"),
		Workers:     intEnv("SCRAPER_WORKERS", DefaultWorkers),
		HTTPTimeout: durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout),
		RateLimit:   floatEnv("SEC_RATE_LIMIT", DefaultRateLimit),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("SEC_USER_AGENT is required (format: \"AppName/Version (contact@example.com)\")")
	}

	return cfg, nil
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
