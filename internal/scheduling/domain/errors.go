package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures for callers and the transport layer.
type ErrorKind string

const (
	// KindInvalidInput covers malformed times, out-of-range scores,
	// overlapping fixed events, and negative durations. Rejected before
	// any stage runs.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindInfeasibleConstraints means the solver proved no task fits.
	// The pipeline continues and reports it as a warning.
	KindInfeasibleConstraints ErrorKind = "infeasible_constraints"
	// KindTimeout means the solver hit its wall-clock budget.
	KindTimeout ErrorKind = "timeout"
	// KindInternal is an unexpected failure inside a stage that must be
	// total (conflict resolution, gap filling).
	KindInternal ErrorKind = "internal"
)

// Error is a classified domain error with a human-readable detail.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Is matches domain errors by kind, so callers can use errors.Is with the
// exported sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput          = &Error{Kind: KindInvalidInput, Detail: "invalid input"}
	ErrInfeasibleConstraints = &Error{Kind: KindInfeasibleConstraints, Detail: "infeasible constraints"}
	ErrTimeout               = &Error{Kind: KindTimeout, Detail: "timeout"}
	ErrInternal              = &Error{Kind: KindInternal, Detail: "internal error"}
)

// NewInvalidInput creates an invalid-input error with detail.
func NewInvalidInput(detail string) *Error {
	return &Error{Kind: KindInvalidInput, Detail: detail}
}

// NewInternal creates an internal error with detail.
func NewInternal(detail string) *Error {
	return &Error{Kind: KindInternal, Detail: detail}
}

// KindOf extracts the kind of a domain error, or KindInternal for anything
// that is not one.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
