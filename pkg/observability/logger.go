// Package observability provides structured logging, request correlation,
// and lightweight runtime metrics.
package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// LoggerConfig controls log output.
type LoggerConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is "json" or "text".
	Format string
	// Service is attached to every record.
	Service string
}

// LoggerConfigFromEnv reads CIRCADIA_LOG_LEVEL and CIRCADIA_LOG_FORMAT.
func LoggerConfigFromEnv(service string) LoggerConfig {
	return LoggerConfig{
		Level:   os.Getenv("CIRCADIA_LOG_LEVEL"),
		Format:  os.Getenv("CIRCADIA_LOG_FORMAT"),
		Service: service,
	}
}

// NewLogger builds an slog.Logger from the config. Unknown levels fall back
// to info, unknown formats to text.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	handler = &correlationHandler{Handler: handler}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// correlationHandler injects the request correlation ID from the context
// into every record that has one.
type correlationHandler struct {
	slog.Handler
}

func (h *correlationHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := CorrelationIDFromContext(ctx); ok {
		record.AddAttrs(slog.String("correlation_id", id))
	}
	return h.Handler.Handle(ctx, record)
}

func (h *correlationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &correlationHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *correlationHandler) WithGroup(name string) slog.Handler {
	return &correlationHandler{Handler: h.Handler.WithGroup(name)}
}
