// Package refinement asks an optional external service for suggestions on
// a generated schedule. Refinement is advisory; failures never block
// schedule generation.
package refinement

import (
	"context"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// Refiner reviews a generated schedule and returns suggestions.
type Refiner interface {
	Refine(ctx context.Context, schedule *domain.GeneratedSchedule) ([]string, error)
}

// NoopRefiner returns no suggestions. Used when no refinement service is
// configured.
type NoopRefiner struct{}

// NewNoopRefiner creates a refiner that suggests nothing.
func NewNoopRefiner() *NoopRefiner {
	return &NoopRefiner{}
}

// Refine returns no suggestions.
func (r *NoopRefiner) Refine(_ context.Context, _ *domain.GeneratedSchedule) ([]string, error) {
	return nil, nil
}

var _ Refiner = (*NoopRefiner)(nil)
