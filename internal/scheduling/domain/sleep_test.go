package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSleepNeedFromScale(t *testing.T) {
	assert.Equal(t, SleepNeedLow, SleepNeedFromScale(0))
	assert.Equal(t, SleepNeedLow, SleepNeedFromScale(39))
	assert.Equal(t, SleepNeedMedium, SleepNeedFromScale(40))
	assert.Equal(t, SleepNeedMedium, SleepNeedFromScale(60))
	assert.Equal(t, SleepNeedHigh, SleepNeedFromScale(61))
	assert.Equal(t, SleepNeedHigh, SleepNeedFromScale(100))
}

func TestSleepMetricsProjection(t *testing.T) {
	// Wake 07:30, 8h in bed: last night's bedtime was 23:30 yesterday.
	m := SleepMetrics{TimeInBedMinutes: 480, BedtimeMinutes: 1410, WakeMinutes: 450}
	assert.Equal(t, -30, m.PreviousBedtimeProjection())
	assert.True(t, m.BedtimeTonight())

	// Night owl: bedtime 02:30 the next day.
	late := SleepMetrics{TimeInBedMinutes: 480, BedtimeMinutes: 1590, WakeMinutes: 630}
	assert.Equal(t, 150, late.PreviousBedtimeProjection())
	assert.False(t, late.BedtimeTonight())
}

func TestSleepQualityScore(t *testing.T) {
	ideal := SleepMetrics{
		DurationMinutes:  450,
		TimeInBedMinutes: 480,
		BedtimeMinutes:   1410,
		WakeMinutes:      450,
	}

	t.Run("perfect sleep scores 100", func(t *testing.T) {
		assert.Equal(t, 100, ideal.QualityScore(-30, 450))
	})

	t.Run("one hour late costs timing points", func(t *testing.T) {
		// Same duration, started an hour after the ideal bedtime.
		score := ideal.QualityScore(30, 510)
		assert.Equal(t, 85, score)
	})

	t.Run("short sleep costs duration points", func(t *testing.T) {
		// Two hours short at the ideal bedtime: 120/480 of 70 points.
		assert.Equal(t, 83, ideal.QualityScore(-30, 330))
		// Half an hour of sleep loses nearly the full duration score.
		assert.Equal(t, 34, ideal.QualityScore(-30, 0))
	})

	t.Run("nonsense window scores zero", func(t *testing.T) {
		assert.Equal(t, 0, ideal.QualityScore(450, 450))
		assert.Equal(t, 0, ideal.QualityScore(500, 400))
	})
}
