package domain

import (
	"fmt"
	"time"
)

// TaskPriority orders tasks for placement. Lower rank wins.
type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
	PriorityBacklog  TaskPriority = "backlog"
)

// Rank returns the numeric rank of a priority (1 = most important).
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	case PriorityBacklog:
		return 5
	default:
		return 0
	}
}

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	return p.Rank() != 0
}

// TaskEnergy is the energy demand of a task, matched against the hourly
// energy pattern during placement.
type TaskEnergy string

const (
	EnergyHigh   TaskEnergy = "high"
	EnergyMedium TaskEnergy = "medium"
	EnergyLow    TaskEnergy = "low"
)

// IsValid reports whether the energy level is one of the known values.
func (e TaskEnergy) IsValid() bool {
	switch e {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return true
	default:
		return false
	}
}

// Task is a unit of work to be placed into the schedule. Tasks are owned by
// the caller and immutable to the pipeline.
type Task struct {
	ID              string
	Title           string
	DurationMinutes int
	Priority        TaskPriority
	Energy          TaskEnergy
	// Deadline is an absolute moment the task must end before, if set.
	Deadline *time.Time
	// EarliestStartMinutes is the earliest allowed start, minutes from
	// midnight of the target day, if set.
	EarliestStartMinutes *int
	// DependsOn lists task IDs that must be completed or placed earlier.
	DependsOn []string
	Completed bool
}

// Validate checks the task's own fields. Cross-task checks (dependency
// existence) happen at the request level.
func (t Task) Validate() error {
	if t.ID == "" {
		return NewInvalidInput("task id must not be empty")
	}
	if t.DurationMinutes <= 0 {
		return NewInvalidInput(fmt.Sprintf("task %s: duration must be positive, got %d", t.ID, t.DurationMinutes))
	}
	if !t.Priority.IsValid() {
		return NewInvalidInput(fmt.Sprintf("task %s: unknown priority %q", t.ID, t.Priority))
	}
	if !t.Energy.IsValid() {
		return NewInvalidInput(fmt.Sprintf("task %s: unknown energy level %q", t.ID, t.Energy))
	}
	if t.EarliestStartMinutes != nil {
		if es := *t.EarliestStartMinutes; es < 0 || es >= MinutesPerDay {
			return NewInvalidInput(fmt.Sprintf("task %s: earliest start %d out of range", t.ID, es))
		}
	}
	return nil
}

// DeadlineMinutes converts the absolute deadline to minutes from the target
// day's midnight. Deadlines on later days are clamped to the end of day;
// deadlines before the target day return 0.
func (t Task) DeadlineMinutes(targetDate time.Time) (int, bool) {
	if t.Deadline == nil {
		return 0, false
	}
	dayStart := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	minutes := int(t.Deadline.Sub(dayStart).Minutes())
	if minutes > MinutesPerDay {
		return MinutesPerDay, true
	}
	if minutes < 0 {
		return 0, true
	}
	return minutes, true
}
