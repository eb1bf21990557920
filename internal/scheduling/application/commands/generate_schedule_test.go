package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/circadia/internal/refinement"
	"github.com/felixgeelhaar/circadia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
	"github.com/felixgeelhaar/circadia/internal/scheduling/infrastructure/persistence"
	shared "github.com/felixgeelhaar/circadia/internal/shared/domain"
	"github.com/felixgeelhaar/circadia/internal/shared/infrastructure/eventbus"
)

type fakeCache struct {
	entries map[string]*domain.GeneratedSchedule
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.GeneratedSchedule)}
}

func (c *fakeCache) Get(_ context.Context, digest string) (*domain.GeneratedSchedule, bool, error) {
	c.gets++
	s, ok := c.entries[digest]
	return s, ok, nil
}

func (c *fakeCache) Set(_ context.Context, digest string, s *domain.GeneratedSchedule) error {
	c.sets++
	c.entries[digest] = s
	return nil
}

type capturingPublisher struct {
	events []shared.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

type failingRefiner struct{}

func (failingRefiner) Refine(context.Context, *domain.GeneratedSchedule) ([]string, error) {
	return nil, errors.New("refinement service down")
}

type suggestingRefiner struct{}

func (suggestingRefiner) Refine(context.Context, *domain.GeneratedSchedule) ([]string, error) {
	return []string{"consider a walk after lunch"}, nil
}

func newHandler(cache ScheduleCache, publisher eventbus.Publisher, refiner refinement.Refiner) (*GenerateScheduleHandler, *persistence.MemoryScheduleRepository) {
	fixedID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	pipeline := services.NewSchedulePipeline(services.DefaultSolverConfig(), nil,
		services.WithClock(func() time.Time { return time.Date(2026, 8, 25, 18, 0, 0, 0, time.UTC) }),
		services.WithIDSource(func() uuid.UUID { return fixedID }),
	)
	repo := persistence.NewMemoryScheduleRepository()
	h := NewGenerateScheduleHandler(pipeline, repo, cache, persistence.RequestDigest, publisher, refiner, nil)
	return h, repo
}

func validCommand() GenerateScheduleCommand {
	meq := 50
	return GenerateScheduleCommand{
		UserID:     "user-1",
		TargetDate: "2026-08-26",
		Tasks: []domain.Task{
			{ID: "t1", Title: "Write report", DurationMinutes: 60, Priority: domain.PriorityHigh, Energy: domain.EnergyHigh},
		},
		Preferences: map[string]any{"sleep_need_scale": 50},
		Profile:     domain.UserProfile{Age: 30, MEQScore: &meq},
	}
}

func TestHandleGeneratesAndPersists(t *testing.T) {
	publisher := &capturingPublisher{}
	handler, repo := newHandler(nil, publisher, nil)

	schedule, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
	require.NoError(t, schedule.CheckCoverage())

	stored, err := repo.FindByID(context.Background(), schedule.ScheduleID)
	require.NoError(t, err)
	assert.Equal(t, schedule.UserID, stored.UserID)

	byDay, err := repo.FindByUserAndDate(context.Background(), "user-1", schedule.TargetDate)
	require.NoError(t, err)
	assert.Equal(t, schedule.ScheduleID, byDay.ScheduleID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "schedule.generated", publisher.events[0].EventName())
	assert.Equal(t, schedule.ScheduleID.String(), publisher.events[0].AggregateID())
}

func TestHandleRejectsBadDate(t *testing.T) {
	handler, _ := newHandler(nil, nil, nil)
	cmd := validCommand()
	cmd.TargetDate = "26/08/2026"

	_, err := handler.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestHandleCarriesPreferenceWarnings(t *testing.T) {
	handler, _ := newHandler(nil, nil, nil)
	cmd := validCommand()
	cmd.Preferences["favourite_color"] = "green"

	schedule, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	require.NotEmpty(t, schedule.Warnings)
	assert.Contains(t, schedule.Warnings[0], "favourite_color")
}

func TestHandleUsesCache(t *testing.T) {
	cache := newFakeCache()
	handler, _ := newHandler(cache, nil, nil)

	first, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets, "second call should hit the cache")
	assert.Equal(t, first.ScheduleID, second.ScheduleID)
}

func TestHandleRefinementSuggestionsAppended(t *testing.T) {
	handler, _ := newHandler(nil, nil, suggestingRefiner{})

	schedule, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
	assert.Contains(t, schedule.Warnings, "consider a walk after lunch")
}

func TestHandleRefinementFailureIsNotFatal(t *testing.T) {
	handler, _ := newHandler(nil, nil, failingRefiner{})

	schedule, err := handler.Handle(context.Background(), validCommand())
	require.NoError(t, err)
	require.NotNil(t, schedule)
}
