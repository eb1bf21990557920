package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesFromMapDefaults(t *testing.T) {
	prefs, warnings, err := PreferencesFromMap(nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, DefaultBreakfastMinutes, prefs.Breakfast.StartMinutes)
	assert.Equal(t, DefaultLunchMinutes, prefs.Lunch.StartMinutes)
	assert.Equal(t, DefaultDinnerMinutes, prefs.Dinner.StartMinutes)
	assert.True(t, prefs.Breakfast.Enabled)
	assert.Equal(t, DefaultMorningRoutineMinutes, prefs.MorningRoutineMinutes)
	assert.Equal(t, DefaultSleepNeedScale, prefs.SleepNeedScale)
	assert.Nil(t, prefs.PreferredWakeMinutes)
	assert.Nil(t, prefs.Work.StartMinutes)
}

func TestPreferencesFromMapOverrides(t *testing.T) {
	prefs, warnings, err := PreferencesFromMap(map[string]any{
		"preferred_wake_time": "06:30",
		"sleep_need_scale":    70,
		"work": map[string]any{
			"start_time":      "09:00",
			"end_time":        "17:00",
			"commute_minutes": 45,
			"work_type":       "hybrid",
		},
		"meals": map[string]any{
			"lunch_time":                 "12:00",
			"dinner_enabled":             false,
			"breakfast_duration_minutes": 20,
		},
		"routines": map[string]any{
			"morning_duration_minutes": 45,
			"evening_duration_minutes": 20,
		},
		"activities": []any{
			map[string]any{"name": "Gym", "start_time": "18:00", "duration_minutes": 60},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.NotNil(t, prefs.PreferredWakeMinutes)
	assert.Equal(t, 390, *prefs.PreferredWakeMinutes)
	assert.Equal(t, 70, prefs.SleepNeedScale)
	assert.Equal(t, SleepNeedHigh, prefs.SleepNeed())

	require.NotNil(t, prefs.Work.StartMinutes)
	assert.Equal(t, 540, *prefs.Work.StartMinutes)
	require.NotNil(t, prefs.Work.EndMinutes)
	assert.Equal(t, 1020, *prefs.Work.EndMinutes)
	assert.Equal(t, 45, prefs.Work.CommuteMinutes)
	assert.Equal(t, "hybrid", prefs.Work.WorkType)

	assert.Equal(t, 720, prefs.Lunch.StartMinutes)
	assert.False(t, prefs.Dinner.Enabled)
	assert.Equal(t, 20, prefs.Breakfast.DurationMinutes)

	assert.Equal(t, 45, prefs.MorningRoutineMinutes)
	assert.Equal(t, 20, prefs.EveningRoutineMinutes)

	require.Len(t, prefs.Activities, 1)
	assert.Equal(t, "Gym", prefs.Activities[0].Name)
	assert.Equal(t, 1080, prefs.Activities[0].StartMinutes)
	assert.Equal(t, 60, prefs.Activities[0].DurationMinutes)
}

func TestPreferencesFromMapUnknownKeys(t *testing.T) {
	_, warnings, err := PreferencesFromMap(map[string]any{
		"favourite_color": "green",
		"work": map[string]any{
			"start_time": "09:00",
			"badge_id":   "x42",
		},
	})
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "favourite_color")
	assert.Contains(t, warnings[1], "work.badge_id")
}

func TestPreferencesFromMapInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"bad wake time", map[string]any{"preferred_wake_time": "25:00"}},
		{"scale out of range", map[string]any{"sleep_need_scale": 140}},
		{"negative commute", map[string]any{"work": map[string]any{"commute_minutes": -5}}},
		{"work not an object", map[string]any{"work": "nine to five"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := PreferencesFromMap(tt.raw)
			require.Error(t, err)
			assert.Equal(t, KindInvalidInput, KindOf(err))
		})
	}
}
