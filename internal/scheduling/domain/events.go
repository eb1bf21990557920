package domain

import (
	"time"

	shared "github.com/felixgeelhaar/circadia/internal/shared/domain"
)

// ScheduleGeneratedEvent announces a freshly generated daily schedule.
type ScheduleGeneratedEvent struct {
	ScheduleID string    `json:"schedule_id"`
	UserID     string    `json:"user_id"`
	TargetDate string    `json:"target_date"`
	BlockCount int       `json:"block_count"`
	Timestamp  time.Time `json:"-"`
}

// NewScheduleGeneratedEvent builds the event from a generated schedule.
func NewScheduleGeneratedEvent(s *GeneratedSchedule) ScheduleGeneratedEvent {
	return ScheduleGeneratedEvent{
		ScheduleID: s.ScheduleID.String(),
		UserID:     s.UserID,
		TargetDate: s.TargetDate.Format("2006-01-02"),
		BlockCount: len(s.Blocks),
		Timestamp:  s.GeneratedAt,
	}
}

// EventName implements shared domain.Event.
func (e ScheduleGeneratedEvent) EventName() string { return "schedule.generated" }

// AggregateID implements shared domain.Event.
func (e ScheduleGeneratedEvent) AggregateID() string { return e.ScheduleID }

// OccurredAt implements shared domain.Event.
func (e ScheduleGeneratedEvent) OccurredAt() time.Time { return e.Timestamp }

var _ shared.Event = ScheduleGeneratedEvent{}
