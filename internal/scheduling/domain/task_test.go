package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() Task {
	return Task{
		ID:              "t1",
		Title:           "Write report",
		DurationMinutes: 60,
		Priority:        PriorityHigh,
		Energy:          EnergyHigh,
	}
}

func TestTaskValidate(t *testing.T) {
	t.Run("valid task passes", func(t *testing.T) {
		require.NoError(t, validTask().Validate())
	})

	t.Run("rejects bad fields", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Task)
		}{
			{"empty id", func(task *Task) { task.ID = "" }},
			{"zero duration", func(task *Task) { task.DurationMinutes = 0 }},
			{"negative duration", func(task *Task) { task.DurationMinutes = -30 }},
			{"unknown priority", func(task *Task) { task.Priority = "urgent" }},
			{"unknown energy", func(task *Task) { task.Energy = "max" }},
			{"earliest start out of range", func(task *Task) {
				es := MinutesPerDay
				task.EarliestStartMinutes = &es
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				task := validTask()
				tt.mutate(&task)
				err := task.Validate()
				require.Error(t, err)
				assert.Equal(t, KindInvalidInput, KindOf(err))
			})
		}
	})
}

func TestTaskPriorityRank(t *testing.T) {
	assert.Less(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Less(t, PriorityLow.Rank(), PriorityBacklog.Rank())
	assert.False(t, TaskPriority("urgent").IsValid())
}

func TestTaskDeadlineMinutes(t *testing.T) {
	targetDate := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	t.Run("no deadline", func(t *testing.T) {
		_, ok := validTask().DeadlineMinutes(targetDate)
		assert.False(t, ok)
	})

	t.Run("same day", func(t *testing.T) {
		task := validTask()
		deadline := time.Date(2026, 8, 26, 17, 30, 0, 0, time.UTC)
		task.Deadline = &deadline
		minutes, ok := task.DeadlineMinutes(targetDate)
		require.True(t, ok)
		assert.Equal(t, 17*60+30, minutes)
	})

	t.Run("later day clamps to end of day", func(t *testing.T) {
		task := validTask()
		deadline := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
		task.Deadline = &deadline
		minutes, ok := task.DeadlineMinutes(targetDate)
		require.True(t, ok)
		assert.Equal(t, MinutesPerDay, minutes)
	})

	t.Run("past deadline clamps to zero", func(t *testing.T) {
		task := validTask()
		deadline := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
		task.Deadline = &deadline
		minutes, ok := task.DeadlineMinutes(targetDate)
		require.True(t, ok)
		assert.Equal(t, 0, minutes)
	})
}
