package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrScheduleNotFound is returned when no schedule matches the lookup.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepository stores generated schedules.
type ScheduleRepository interface {
	// Save persists the schedule, replacing any schedule the user already
	// has for the same target date.
	Save(ctx context.Context, schedule *GeneratedSchedule) error
	// FindByID loads a schedule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*GeneratedSchedule, error)
	// FindByUserAndDate loads the user's schedule for the given day.
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*GeneratedSchedule, error)
}
