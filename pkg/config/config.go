// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultHTTPAddr        = ":8080"
	DefaultSQLitePath      = "circadia.db"
	DefaultSolverTimeLimit = 10 * time.Second
	DefaultCacheTTL        = 15 * time.Minute
)

// Config is the full runtime configuration. Empty URLs disable the
// corresponding integration.
type Config struct {
	// HTTPAddr is the listen address of the API server.
	HTTPAddr string
	// DatabaseURL selects PostgreSQL when set; otherwise SQLite at
	// SQLitePath is used.
	DatabaseURL string
	SQLitePath  string
	// RedisURL enables the schedule cache.
	RedisURL string
	CacheTTL time.Duration
	// RabbitMQURL enables domain event publishing.
	RabbitMQURL string
	// RefinementURL enables the external refinement service.
	RefinementURL string
	// SolverTimeLimit bounds a single schedule generation.
	SolverTimeLimit time.Duration
	// LogLevel and LogFormat configure the logger.
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:        envOr("CIRCADIA_HTTP_ADDR", DefaultHTTPAddr),
		DatabaseURL:     os.Getenv("CIRCADIA_DATABASE_URL"),
		SQLitePath:      envOr("CIRCADIA_SQLITE_PATH", DefaultSQLitePath),
		RedisURL:        os.Getenv("CIRCADIA_REDIS_URL"),
		CacheTTL:        DefaultCacheTTL,
		RabbitMQURL:     os.Getenv("CIRCADIA_RABBITMQ_URL"),
		RefinementURL:   os.Getenv("CIRCADIA_REFINEMENT_URL"),
		SolverTimeLimit: DefaultSolverTimeLimit,
		LogLevel:        envOr("CIRCADIA_LOG_LEVEL", "info"),
		LogFormat:       envOr("CIRCADIA_LOG_FORMAT", "text"),
	}

	if raw := os.Getenv("CIRCADIA_SOLVER_TIME_LIMIT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CIRCADIA_SOLVER_TIME_LIMIT: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("CIRCADIA_SOLVER_TIME_LIMIT must be positive, got %s", d)
		}
		cfg.SolverTimeLimit = d
	}

	if raw := os.Getenv("CIRCADIA_CACHE_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CIRCADIA_CACHE_TTL: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("CIRCADIA_CACHE_TTL must be positive, got %s", d)
		}
		cfg.CacheTTL = d
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
