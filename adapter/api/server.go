package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/circadia/pkg/observability"
)

// Server wraps the HTTP server with routing, middleware, and graceful
// shutdown.
type Server struct {
	server  *http.Server
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewServer builds the server with all routes mounted.
func NewServer(addr string, schedules *ScheduleHandler, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	schedules.RegisterRoutes(mux)

	s := &Server{metrics: metrics, logger: logger}
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		ctx := observability.WithCorrelationID(r.Context(), r.Header.Get("X-Correlation-ID"))
		r = r.WithContext(ctx)
		if id, ok := observability.CorrelationIDFromContext(ctx); ok {
			w.Header().Set("X-Correlation-ID", id)
		}

		next.ServeHTTP(w, r)

		s.metrics.Inc("http.requests")
		s.logger.DebugContext(ctx, "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(started),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	counters, durations := s.metrics.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"counters":  counters,
		"durations": durations,
	})
}
