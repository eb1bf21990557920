package refinement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

const defaultRequestTimeout = 5 * time.Second

// HTTPRefiner posts schedules to an external refinement service. Calls run
// through a circuit breaker so a failing service stops being hit while it
// recovers.
type HTTPRefiner struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]string]
	logger  *slog.Logger
}

type refineRequest struct {
	UserID     string             `json:"user_id"`
	TargetDate string             `json:"target_date"`
	Blocks     []refineBlock      `json:"blocks"`
	Metrics    map[string]float64 `json:"metrics"`
}

type refineBlock struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
}

type refineResponse struct {
	Suggestions []string `json:"suggestions"`
}

// NewHTTPRefiner creates a refiner for the given service base URL.
func NewHTTPRefiner(baseURL string, logger *slog.Logger) *HTTPRefiner {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "refinement-service",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &HTTPRefiner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultRequestTimeout},
		breaker: gobreaker.NewCircuitBreaker[[]string](settings),
		logger:  logger,
	}
}

// Refine implements Refiner.
func (r *HTTPRefiner) Refine(ctx context.Context, schedule *domain.GeneratedSchedule) ([]string, error) {
	return r.breaker.Execute(func() ([]string, error) {
		return r.call(ctx, schedule)
	})
}

func (r *HTTPRefiner) call(ctx context.Context, schedule *domain.GeneratedSchedule) ([]string, error) {
	blocks := make([]refineBlock, len(schedule.Blocks))
	for i, b := range schedule.Blocks {
		blocks[i] = refineBlock{
			Type:         string(b.Type),
			Name:         b.Name,
			StartMinutes: b.StartMinutes,
			EndMinutes:   b.EndMinutes,
		}
	}

	body, err := json.Marshal(refineRequest{
		UserID:     schedule.UserID,
		TargetDate: schedule.TargetDate.Format("2006-01-02"),
		Blocks:     blocks,
		Metrics:    schedule.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal refine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/refine", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build refine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call refinement service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("refinement service returned status %d", resp.StatusCode)
	}

	var parsed refineResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode refine response: %w", err)
	}
	return parsed.Suggestions, nil
}

var _ Refiner = (*HTTPRefiner)(nil)
