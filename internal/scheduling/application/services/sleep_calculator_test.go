package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

func intPtr(v int) *int { return &v }

func TestSleepDurationFromCycles(t *testing.T) {
	calc := NewSleepCalculator(nil)

	tests := []struct {
		name         string
		age          int
		need         domain.SleepNeed
		wantDuration int
	}{
		{"adult medium is five 90-minute cycles", 30, domain.SleepNeedMedium, 450},
		{"adult high adds a cycle", 30, domain.SleepNeedHigh, 540},
		{"adult low drops a cycle", 30, domain.SleepNeedLow, 360},
		{"teen medium is eleven 50-minute cycles", 16, domain.SleepNeedMedium, 550},
		{"teen high adds a cycle", 16, domain.SleepNeedHigh, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.Calculate(SleepInput{Age: tt.age, Chronotype: domain.ChronotypeIntermediate, Need: tt.need})
			assert.Equal(t, tt.wantDuration, result.Metrics.DurationMinutes)
		})
	}
}

func TestSleepWakeTimeDefaults(t *testing.T) {
	calc := NewSleepCalculator(nil)

	tests := []struct {
		name       string
		age        int
		chronotype domain.Chronotype
		wantWake   int
	}{
		{"adult early bird", 30, domain.ChronotypeEarlyBird, 360},
		{"adult intermediate shifts 30", 30, domain.ChronotypeIntermediate, 480},
		{"adult night owl shifts 90", 30, domain.ChronotypeNightOwl, 630},
		{"teen night owl shifts 120", 16, domain.ChronotypeNightOwl, 660},
		{"senior early bird shifts back 30", 70, domain.ChronotypeEarlyBird, 330},
		{"senior intermediate unshifted", 70, domain.ChronotypeIntermediate, 450},
		{"unknown chronotype", 30, domain.ChronotypeUnknown, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.Calculate(SleepInput{Age: tt.age, Chronotype: tt.chronotype, Need: domain.SleepNeedMedium})
			assert.Equal(t, tt.wantWake, result.Metrics.WakeMinutes)
			assert.Empty(t, result.Warnings)
		})
	}
}

func TestSleepPreferredWakeSuppressesShift(t *testing.T) {
	calc := NewSleepCalculator(nil)
	result := calc.Calculate(SleepInput{
		Age:               30,
		Chronotype:        domain.ChronotypeNightOwl,
		Need:              domain.SleepNeedMedium,
		TargetWakeMinutes: intPtr(450),
	})
	assert.Equal(t, 450, result.Metrics.WakeMinutes)
	// 450 duration + 15 onset, bedtime snapped down to 23:30 yesterday.
	assert.Equal(t, 480, result.Metrics.TimeInBedMinutes)
	assert.Equal(t, 1410, result.Metrics.BedtimeMinutes)
	assert.True(t, result.Metrics.BedtimeTonight())
}

func TestSleepWorkConflictOverride(t *testing.T) {
	calc := NewSleepCalculator(nil)

	t.Run("work earlier than wake pulls wake forward", func(t *testing.T) {
		// Night owl would wake 10:30 but work starts 09:00 with a
		// 30-minute commute: wake must be 08:00.
		result := calc.Calculate(SleepInput{
			Age:              30,
			Chronotype:       domain.ChronotypeNightOwl,
			Need:             domain.SleepNeedMedium,
			WorkStartMinutes: intPtr(540),
			CommuteMinutes:   30,
		})
		assert.Equal(t, 480, result.Metrics.WakeMinutes)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "wake time adjusted from 10:30 to 08:00")
	})

	t.Run("late work leaves wake alone", func(t *testing.T) {
		result := calc.Calculate(SleepInput{
			Age:              30,
			Chronotype:       domain.ChronotypeEarlyBird,
			Need:             domain.SleepNeedMedium,
			WorkStartMinutes: intPtr(600),
		})
		assert.Equal(t, 360, result.Metrics.WakeMinutes)
		assert.Empty(t, result.Warnings)
	})
}

func TestSleepBedtimeGrid(t *testing.T) {
	calc := NewSleepCalculator(nil)
	// Adult intermediate: wake 08:00, 465 in bed -> raw bedtime 00:15,
	// snapped down to midnight.
	result := calc.Calculate(SleepInput{Age: 30, Chronotype: domain.ChronotypeIntermediate, Need: domain.SleepNeedMedium})
	assert.Equal(t, 1440, result.Metrics.BedtimeMinutes)
	assert.False(t, result.Metrics.BedtimeTonight())
	// Snapping stretches time in bed to keep the window contiguous.
	assert.Equal(t, 480, result.Metrics.TimeInBedMinutes)
	assert.Equal(t, 0, result.Metrics.PreviousBedtimeProjection())
}

func TestSleepFallbackWindow(t *testing.T) {
	calc := NewSleepCalculator(nil)
	result := calc.Calculate(SleepInput{Age: -1, Chronotype: domain.ChronotypeIntermediate, Need: domain.SleepNeedMedium})

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "default 23:00-07:00 window")
	assert.Equal(t, 1380, result.Metrics.BedtimeMinutes)
	assert.Equal(t, 420, result.Metrics.WakeMinutes)
	assert.Equal(t, 480, result.Metrics.TimeInBedMinutes)
}
