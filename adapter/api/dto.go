// Package api exposes schedule generation over HTTP.
package api

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// generateRequest is the wire form of a generation request. Clock values
// use "HH:MM"; the deadline is RFC 3339.
type generateRequest struct {
	UserID      string          `json:"user_id"`
	TargetDate  string          `json:"target_date"`
	Tasks       []taskDTO       `json:"tasks"`
	FixedEvents []fixedEventDTO `json:"fixed_events"`
	Preferences map[string]any  `json:"preferences"`
	Profile     profileDTO      `json:"profile"`
}

type taskDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DurationMinutes int      `json:"duration_minutes"`
	Priority        string   `json:"priority"`
	EnergyLevel     string   `json:"energy_level"`
	Deadline        string   `json:"deadline,omitempty"`
	EarliestStart   string   `json:"earliest_start,omitempty"`
	DependsOn       []string `json:"depends_on,omitempty"`
	Completed       bool     `json:"completed,omitempty"`
}

type fixedEventDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type,omitempty"`
}

type profileDTO struct {
	Age       int    `json:"age"`
	MEQScore  *int   `json:"meq_score,omitempty"`
	SleepNeed string `json:"sleep_need,omitempty"`
}

type scheduleResponse struct {
	ScheduleID  string             `json:"schedule_id"`
	UserID      string             `json:"user_id"`
	TargetDate  string             `json:"target_date"`
	Blocks      []blockDTO         `json:"blocks"`
	Metrics     map[string]float64 `json:"metrics"`
	Warnings    []string           `json:"warnings"`
	GeneratedAt string             `json:"generation_timestamp"`
}

type blockDTO struct {
	Type            string `json:"type"`
	Name            string `json:"name"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	ReferenceID     string `json:"reference_id,omitempty"`
	NextDay         bool   `json:"next_day,omitempty"`
}

type errorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (d taskDTO) toDomain() (domain.Task, error) {
	task := domain.Task{
		ID:              d.ID,
		Title:           d.Title,
		DurationMinutes: d.DurationMinutes,
		Priority:        domain.TaskPriority(d.Priority),
		Energy:          domain.TaskEnergy(d.EnergyLevel),
		DependsOn:       d.DependsOn,
		Completed:       d.Completed,
	}
	if d.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, d.Deadline)
		if err != nil {
			return domain.Task{}, domain.NewInvalidInput(fmt.Sprintf(
				"task %s: deadline %q is not a valid RFC 3339 timestamp", d.ID, d.Deadline))
		}
		task.Deadline = &deadline
	}
	if d.EarliestStart != "" {
		minutes, err := domain.ParseClock(d.EarliestStart)
		if err != nil {
			return domain.Task{}, domain.NewInvalidInput(fmt.Sprintf(
				"task %s: earliest_start %q is not a valid HH:MM time", d.ID, d.EarliestStart))
		}
		task.EarliestStartMinutes = &minutes
	}
	return task, nil
}

func (d fixedEventDTO) toDomain() (domain.FixedEvent, error) {
	start, err := domain.ParseClock(d.StartTime)
	if err != nil {
		return domain.FixedEvent{}, domain.NewInvalidInput(fmt.Sprintf(
			"fixed event %s: start_time %q is not a valid HH:MM time", d.ID, d.StartTime))
	}
	end, err := domain.ParseClock(d.EndTime)
	if err != nil {
		return domain.FixedEvent{}, domain.NewInvalidInput(fmt.Sprintf(
			"fixed event %s: end_time %q is not a valid HH:MM time", d.ID, d.EndTime))
	}
	return domain.FixedEvent{
		ID:           d.ID,
		Title:        d.Title,
		StartMinutes: start,
		EndMinutes:   end,
		Type:         d.Type,
	}, nil
}

func (d profileDTO) toDomain() (domain.UserProfile, error) {
	profile := domain.UserProfile{Age: d.Age, MEQScore: d.MEQScore}
	if d.SleepNeed != "" {
		need := domain.SleepNeed(d.SleepNeed)
		switch need {
		case domain.SleepNeedLow, domain.SleepNeedMedium, domain.SleepNeedHigh:
			profile.SleepNeed = &need
		default:
			return domain.UserProfile{}, domain.NewInvalidInput(fmt.Sprintf(
				"sleep_need %q must be low, medium, or high", d.SleepNeed))
		}
	}
	return profile, nil
}

func toScheduleResponse(s *domain.GeneratedSchedule) scheduleResponse {
	blocks := make([]blockDTO, len(s.Blocks))
	for i, b := range s.Blocks {
		blocks[i] = blockDTO{
			Type:            string(b.Type),
			Name:            b.Name,
			StartTime:       domain.FormatMinutes(b.StartMinutes),
			EndTime:         domain.FormatMinutes(b.EndMinutes),
			DurationMinutes: b.EndMinutes - b.StartMinutes,
			ReferenceID:     b.ReferenceID,
			NextDay:         b.NextDay,
		}
	}
	return scheduleResponse{
		ScheduleID:  s.ScheduleID.String(),
		UserID:      s.UserID,
		TargetDate:  s.TargetDate.Format("2006-01-02"),
		Blocks:      blocks,
		Metrics:     s.Metrics,
		Warnings:    s.Warnings,
		GeneratedAt: s.GeneratedAt.Format(time.RFC3339),
	}
}
