package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

func newSQLiteRepo(t *testing.T) *SQLiteScheduleRepository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "circadia_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteScheduleRepository(db)
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	schedule := sampleSchedule("user-1", date)
	schedule.Warnings = []string{"task t9 not scheduled: no free slot fits the task"}

	require.NoError(t, repo.Save(ctx, schedule))

	byID, err := repo.FindByID(ctx, schedule.ScheduleID)
	require.NoError(t, err)
	assert.Equal(t, schedule.ScheduleID, byID.ScheduleID)
	assert.Equal(t, schedule.UserID, byID.UserID)
	assert.True(t, schedule.TargetDate.Equal(byID.TargetDate))
	assert.Equal(t, schedule.Blocks, byID.Blocks)
	assert.Equal(t, schedule.Metrics, byID.Metrics)
	assert.Equal(t, schedule.Warnings, byID.Warnings)
	assert.True(t, schedule.GeneratedAt.Equal(byID.GeneratedAt))

	byDay, err := repo.FindByUserAndDate(ctx, "user-1", date)
	require.NoError(t, err)
	assert.Equal(t, schedule.ScheduleID, byDay.ScheduleID)
}

func TestSQLiteRepositoryNotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)

	_, err = repo.FindByUserAndDate(ctx, "nobody", time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestSQLiteRepositoryUpsertsByUserAndDate(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	first := sampleSchedule("user-1", date)
	second := sampleSchedule("user-1", date)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	byDay, err := repo.FindByUserAndDate(ctx, "user-1", date)
	require.NoError(t, err)
	assert.Equal(t, second.ScheduleID, byDay.ScheduleID)

	_, err = repo.FindByID(ctx, first.ScheduleID)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}
