// Package eventbus publishes domain events to interested consumers.
package eventbus

import (
	"context"

	"github.com/felixgeelhaar/circadia/internal/shared/domain"
)

// Publisher delivers domain events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that drops every event.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish does nothing.
func (p *NoopPublisher) Publish(_ context.Context, _ domain.Event) error {
	return nil
}

// Close does nothing.
func (p *NoopPublisher) Close() error {
	return nil
}

var _ Publisher = (*NoopPublisher)(nil)
