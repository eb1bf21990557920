// Package domain holds the shared kernel used across bounded contexts.
package domain

import "time"

// Event is a domain event emitted by an aggregate.
type Event interface {
	// EventName is the dotted event identifier, e.g. "schedule.generated".
	EventName() string
	// AggregateID identifies the aggregate the event belongs to.
	AggregateID() string
	// OccurredAt is when the event happened.
	OccurredAt() time.Time
}
