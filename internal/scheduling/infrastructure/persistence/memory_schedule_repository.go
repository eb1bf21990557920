package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// MemoryScheduleRepository keeps schedules in memory. Used by the CLI when
// no database is configured, and by tests.
type MemoryScheduleRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*domain.GeneratedSchedule
	byUserDay map[string]uuid.UUID
}

// NewMemoryScheduleRepository creates an empty repository.
func NewMemoryScheduleRepository() *MemoryScheduleRepository {
	return &MemoryScheduleRepository{
		byID:      make(map[uuid.UUID]*domain.GeneratedSchedule),
		byUserDay: make(map[string]uuid.UUID),
	}
}

func userDayKey(userID string, date time.Time) string {
	return userID + "|" + date.Format(dateLayout)
}

// Save implements domain.ScheduleRepository.
func (r *MemoryScheduleRepository) Save(_ context.Context, schedule *domain.GeneratedSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userDayKey(schedule.UserID, schedule.TargetDate)
	if prev, ok := r.byUserDay[key]; ok {
		delete(r.byID, prev)
	}
	copied := *schedule
	r.byID[schedule.ScheduleID] = &copied
	r.byUserDay[key] = schedule.ScheduleID
	return nil
}

// FindByID implements domain.ScheduleRepository.
func (r *MemoryScheduleRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.GeneratedSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	copied := *schedule
	return &copied, nil
}

// FindByUserAndDate implements domain.ScheduleRepository.
func (r *MemoryScheduleRepository) FindByUserAndDate(_ context.Context, userID string, date time.Time) (*domain.GeneratedSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUserDay[userDayKey(userID, date)]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

var _ domain.ScheduleRepository = (*MemoryScheduleRepository)(nil)
