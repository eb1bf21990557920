// Package queries holds the read-side application handlers for the
// scheduling context.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// GetScheduleHandler loads stored schedules.
type GetScheduleHandler struct {
	repo domain.ScheduleRepository
}

// NewGetScheduleHandler creates the handler.
func NewGetScheduleHandler(repo domain.ScheduleRepository) *GetScheduleHandler {
	return &GetScheduleHandler{repo: repo}
}

// ByID loads a schedule by its identifier.
func (h *GetScheduleHandler) ByID(ctx context.Context, rawID string) (*domain.GeneratedSchedule, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.NewInvalidInput(fmt.Sprintf("schedule id %q is not a valid UUID", rawID))
	}
	return h.repo.FindByID(ctx, id)
}

// ByUserAndDate loads the schedule a user has for a day.
func (h *GetScheduleHandler) ByUserAndDate(ctx context.Context, userID, rawDate string) (*domain.GeneratedSchedule, error) {
	if userID == "" {
		return nil, domain.NewInvalidInput("user_id is required")
	}
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return nil, domain.NewInvalidInput(fmt.Sprintf("date %q is not a valid YYYY-MM-DD date", rawDate))
	}
	return h.repo.FindByUserAndDate(ctx, userID, date)
}
