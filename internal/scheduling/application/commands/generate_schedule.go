// Package commands holds the write-side application handlers for the
// scheduling context.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/circadia/internal/refinement"
	"github.com/felixgeelhaar/circadia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
	"github.com/felixgeelhaar/circadia/internal/shared/infrastructure/eventbus"
)

// ScheduleCache is the optional read-through cache for generated schedules.
type ScheduleCache interface {
	Get(ctx context.Context, digest string) (*domain.GeneratedSchedule, bool, error)
	Set(ctx context.Context, digest string, schedule *domain.GeneratedSchedule) error
}

// RequestDigester hashes a request for cache keying.
type RequestDigester func(domain.ScheduleRequest) (string, error)

// GenerateScheduleCommand carries one generation request. Preferences come
// in as the raw key-value map supplied by the caller.
type GenerateScheduleCommand struct {
	UserID      string
	TargetDate  string
	Tasks       []domain.Task
	FixedEvents []domain.FixedEvent
	Preferences map[string]any
	Profile     domain.UserProfile
}

// GenerateScheduleHandler runs the pipeline and wires its result into
// persistence, caching, eventing, and refinement. Only pipeline failures
// fail the command; the side channels degrade to warnings in the log.
type GenerateScheduleHandler struct {
	pipeline  *services.SchedulePipeline
	repo      domain.ScheduleRepository
	cache     ScheduleCache
	digest    RequestDigester
	publisher eventbus.Publisher
	refiner   refinement.Refiner
	logger    *slog.Logger
}

// NewGenerateScheduleHandler creates the handler. cache may be nil to
// disable caching; publisher and refiner fall back to no-ops when nil.
func NewGenerateScheduleHandler(
	pipeline *services.SchedulePipeline,
	repo domain.ScheduleRepository,
	cache ScheduleCache,
	digest RequestDigester,
	publisher eventbus.Publisher,
	refiner refinement.Refiner,
	logger *slog.Logger,
) *GenerateScheduleHandler {
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher()
	}
	if refiner == nil {
		refiner = refinement.NewNoopRefiner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateScheduleHandler{
		pipeline:  pipeline,
		repo:      repo,
		cache:     cache,
		digest:    digest,
		publisher: publisher,
		refiner:   refiner,
		logger:    logger,
	}
}

// Handle generates, persists, and announces a daily schedule.
func (h *GenerateScheduleHandler) Handle(ctx context.Context, cmd GenerateScheduleCommand) (*domain.GeneratedSchedule, error) {
	targetDate, err := time.Parse("2006-01-02", cmd.TargetDate)
	if err != nil {
		return nil, domain.NewInvalidInput(fmt.Sprintf("target_date %q is not a valid YYYY-MM-DD date", cmd.TargetDate))
	}

	prefs, prefWarnings, err := domain.PreferencesFromMap(cmd.Preferences)
	if err != nil {
		return nil, err
	}

	req := domain.ScheduleRequest{
		UserID:      cmd.UserID,
		TargetDate:  targetDate,
		Tasks:       cmd.Tasks,
		FixedEvents: cmd.FixedEvents,
		Preferences: prefs,
		Profile:     cmd.Profile,
	}

	var digest string
	if h.cache != nil && h.digest != nil {
		digest, err = h.digest(req)
		if err != nil {
			h.logger.Warn("request digest failed, skipping cache", "error", err)
		} else if cached, hit, cacheErr := h.cache.Get(ctx, digest); cacheErr != nil {
			h.logger.Warn("cache lookup failed", "error", cacheErr)
		} else if hit {
			h.logger.Debug("schedule served from cache", "user_id", cmd.UserID, "digest", digest)
			return cached, nil
		}
	}

	schedule, err := h.pipeline.Generate(ctx, req, prefWarnings)
	if err != nil {
		return nil, err
	}

	if suggestions, refineErr := h.refiner.Refine(ctx, schedule); refineErr != nil {
		h.logger.Warn("refinement unavailable", "error", refineErr)
	} else {
		schedule.Warnings = append(schedule.Warnings, suggestions...)
	}

	if h.repo != nil {
		if err := h.repo.Save(ctx, schedule); err != nil {
			return nil, fmt.Errorf("save schedule: %w", err)
		}
	}

	if h.cache != nil && digest != "" {
		if err := h.cache.Set(ctx, digest, schedule); err != nil {
			h.logger.Warn("cache store failed", "error", err)
		}
	}

	event := domain.NewScheduleGeneratedEvent(schedule)
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("event publish failed", "event", event.EventName(), "error", err)
	}

	return schedule, nil
}
