package domain

import (
	"fmt"
	"time"
)

// ScheduleRequest is the validated input to the pipeline. Everything in it
// is owned by the caller and immutable to the core.
type ScheduleRequest struct {
	UserID      string
	TargetDate  time.Time
	Tasks       []Task
	FixedEvents []FixedEvent
	Preferences Preferences
	Profile     UserProfile
}

// Validate rejects malformed input before any stage runs.
func (r ScheduleRequest) Validate() error {
	if r.UserID == "" {
		return NewInvalidInput("user_id must not be empty")
	}
	if r.TargetDate.IsZero() {
		return NewInvalidInput("target_date must be set")
	}
	if err := r.Profile.Validate(); err != nil {
		return err
	}
	if err := ValidateFixedEvents(r.FixedEvents); err != nil {
		return err
	}

	seen := make(map[string]bool, len(r.Tasks))
	for _, task := range r.Tasks {
		if err := task.Validate(); err != nil {
			return err
		}
		if seen[task.ID] {
			return NewInvalidInput(fmt.Sprintf("duplicate task id %s", task.ID))
		}
		seen[task.ID] = true
	}
	for _, task := range r.Tasks {
		for _, dep := range task.DependsOn {
			if !seen[dep] {
				return NewInvalidInput(fmt.Sprintf("task %s depends on unknown task %s", task.ID, dep))
			}
		}
	}

	if start, end := r.Preferences.Work.StartMinutes, r.Preferences.Work.EndMinutes; start != nil && end != nil && *start >= *end {
		return NewInvalidInput("work.start_time must be before work.end_time")
	}

	return nil
}

// IncompleteTasks returns the tasks eligible for placement.
func (r ScheduleRequest) IncompleteTasks() []Task {
	tasks := make([]Task, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		if !t.Completed {
			tasks = append(tasks, t)
		}
	}
	return tasks
}
