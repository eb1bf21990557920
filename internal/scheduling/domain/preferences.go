package domain

import (
	"fmt"
	"sort"
)

// Default preference values.
const (
	DefaultBreakfastMinutes      = 7*60 + 30
	DefaultLunchMinutes          = 12*60 + 30
	DefaultDinnerMinutes         = 19 * 60
	DefaultMealDurationMinutes   = 30
	DefaultMorningRoutineMinutes = 30
	DefaultEveningRoutineMinutes = 30
	DefaultSleepNeedScale        = 50
)

// MealPreference configures one meal of the day.
type MealPreference struct {
	Enabled         bool
	StartMinutes    int
	DurationMinutes int
}

// WorkPreference bounds the scheduling day window and drives the wake-time
// override. WorkType (remote/hybrid/office) is carried as metadata only;
// commute minutes is the single input to the override.
type WorkPreference struct {
	StartMinutes   *int
	EndMinutes     *int
	CommuteMinutes int
	WorkType       string
}

// ActivityPreference is an optional exercise or leisure block.
type ActivityPreference struct {
	Name            string
	StartMinutes    int
	DurationMinutes int
}

// Preferences is the concrete, validated preference structure the pipeline
// consumes. The zero value is not usable; start from DefaultPreferences.
type Preferences struct {
	PreferredWakeMinutes  *int
	Work                  WorkPreference
	Breakfast             MealPreference
	Lunch                 MealPreference
	Dinner                MealPreference
	MorningRoutineMinutes int
	EveningRoutineMinutes int
	SleepNeedScale        int
	Activities            []ActivityPreference
}

// DefaultPreferences returns the documented defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		Breakfast:             MealPreference{Enabled: true, StartMinutes: DefaultBreakfastMinutes, DurationMinutes: DefaultMealDurationMinutes},
		Lunch:                 MealPreference{Enabled: true, StartMinutes: DefaultLunchMinutes, DurationMinutes: DefaultMealDurationMinutes},
		Dinner:                MealPreference{Enabled: true, StartMinutes: DefaultDinnerMinutes, DurationMinutes: DefaultMealDurationMinutes},
		MorningRoutineMinutes: DefaultMorningRoutineMinutes,
		EveningRoutineMinutes: DefaultEveningRoutineMinutes,
		SleepNeedScale:        DefaultSleepNeedScale,
	}
}

// SleepNeed maps the preference scale onto a sleep-need category.
func (p Preferences) SleepNeed() SleepNeed {
	return SleepNeedFromScale(p.SleepNeedScale)
}

// PreferencesFromMap builds Preferences from the loosely-typed preference
// object on the wire. Unknown keys are collected as warnings, never errors;
// malformed values for recognized keys are invalid input.
func PreferencesFromMap(raw map[string]any) (Preferences, []string, error) {
	prefs := DefaultPreferences()
	var warnings []string

	for _, key := range sortedKeys(raw) {
		value := raw[key]
		switch key {
		case "preferred_wake_time":
			minutes, err := clockValue(key, value)
			if err != nil {
				return prefs, warnings, err
			}
			prefs.PreferredWakeMinutes = &minutes
		case "sleep_need_scale":
			scale, err := intValue(key, value)
			if err != nil {
				return prefs, warnings, err
			}
			if scale < 0 || scale > 100 {
				return prefs, warnings, NewInvalidInput(fmt.Sprintf("sleep_need_scale %d out of range [0, 100]", scale))
			}
			prefs.SleepNeedScale = scale
		case "work":
			if err := parseWork(value, &prefs, &warnings); err != nil {
				return prefs, warnings, err
			}
		case "meals":
			if err := parseMeals(value, &prefs, &warnings); err != nil {
				return prefs, warnings, err
			}
		case "routines":
			if err := parseRoutines(value, &prefs, &warnings); err != nil {
				return prefs, warnings, err
			}
		case "activities":
			if err := parseActivities(value, &prefs); err != nil {
				return prefs, warnings, err
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown preference key %q ignored", key))
		}
	}

	return prefs, warnings, nil
}

func parseWork(value any, prefs *Preferences, warnings *[]string) error {
	section, ok := value.(map[string]any)
	if !ok {
		return NewInvalidInput("work preferences must be an object")
	}
	for _, key := range sortedKeys(section) {
		v := section[key]
		switch key {
		case "start_time":
			minutes, err := clockValue("work.start_time", v)
			if err != nil {
				return err
			}
			prefs.Work.StartMinutes = &minutes
		case "end_time":
			minutes, err := clockValue("work.end_time", v)
			if err != nil {
				return err
			}
			prefs.Work.EndMinutes = &minutes
		case "commute_minutes":
			commute, err := intValue("work.commute_minutes", v)
			if err != nil {
				return err
			}
			if commute < 0 {
				return NewInvalidInput("work.commute_minutes must not be negative")
			}
			prefs.Work.CommuteMinutes = commute
		case "work_type":
			if s, ok := v.(string); ok {
				prefs.Work.WorkType = s
			}
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown preference key %q ignored", "work."+key))
		}
	}
	return nil
}

func parseMeals(value any, prefs *Preferences, warnings *[]string) error {
	section, ok := value.(map[string]any)
	if !ok {
		return NewInvalidInput("meals preferences must be an object")
	}
	meals := map[string]*MealPreference{
		"breakfast": &prefs.Breakfast,
		"lunch":     &prefs.Lunch,
		"dinner":    &prefs.Dinner,
	}
	for _, key := range sortedKeys(section) {
		v := section[key]
		handled := false
		for name, meal := range meals {
			switch key {
			case name + "_time":
				minutes, err := clockValue("meals."+key, v)
				if err != nil {
					return err
				}
				meal.StartMinutes = minutes
				handled = true
			case name + "_enabled":
				enabled, ok := v.(bool)
				if !ok {
					return NewInvalidInput(fmt.Sprintf("meals.%s must be a boolean", key))
				}
				meal.Enabled = enabled
				handled = true
			case name + "_duration_minutes":
				minutes, err := intValue("meals."+key, v)
				if err != nil {
					return err
				}
				if minutes <= 0 {
					return NewInvalidInput(fmt.Sprintf("meals.%s must be positive", key))
				}
				meal.DurationMinutes = minutes
				handled = true
			}
		}
		if !handled {
			*warnings = append(*warnings, fmt.Sprintf("unknown preference key %q ignored", "meals."+key))
		}
	}
	return nil
}

func parseRoutines(value any, prefs *Preferences, warnings *[]string) error {
	section, ok := value.(map[string]any)
	if !ok {
		return NewInvalidInput("routines preferences must be an object")
	}
	for _, key := range sortedKeys(section) {
		v := section[key]
		switch key {
		case "morning_duration_minutes":
			minutes, err := intValue("routines.morning_duration_minutes", v)
			if err != nil {
				return err
			}
			if minutes < 0 {
				return NewInvalidInput("routines.morning_duration_minutes must not be negative")
			}
			prefs.MorningRoutineMinutes = minutes
		case "evening_duration_minutes":
			minutes, err := intValue("routines.evening_duration_minutes", v)
			if err != nil {
				return err
			}
			if minutes < 0 {
				return NewInvalidInput("routines.evening_duration_minutes must not be negative")
			}
			prefs.EveningRoutineMinutes = minutes
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown preference key %q ignored", "routines."+key))
		}
	}
	return nil
}

func parseActivities(value any, prefs *Preferences) error {
	items, ok := value.([]any)
	if !ok {
		return NewInvalidInput("activities must be an array")
	}
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return NewInvalidInput(fmt.Sprintf("activities[%d] must be an object", i))
		}
		name, _ := entry["name"].(string)
		if name == "" {
			name = "Activity"
		}
		start, err := clockValue(fmt.Sprintf("activities[%d].start_time", i), entry["start_time"])
		if err != nil {
			return err
		}
		duration, err := intValue(fmt.Sprintf("activities[%d].duration_minutes", i), entry["duration_minutes"])
		if err != nil {
			return err
		}
		if duration <= 0 {
			return NewInvalidInput(fmt.Sprintf("activities[%d].duration_minutes must be positive", i))
		}
		prefs.Activities = append(prefs.Activities, ActivityPreference{
			Name:            name,
			StartMinutes:    start,
			DurationMinutes: duration,
		})
	}
	return nil
}

func clockValue(key string, value any) (int, error) {
	s, ok := value.(string)
	if !ok {
		return 0, NewInvalidInput(fmt.Sprintf("%s must be an HH:MM string", key))
	}
	minutes, err := ParseClock(s)
	if err != nil {
		return 0, NewInvalidInput(fmt.Sprintf("%s: %v", key, err))
	}
	return minutes, nil
}

func intValue(key string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, NewInvalidInput(fmt.Sprintf("%s must be an integer", key))
		}
		return int(v), nil
	default:
		return 0, NewInvalidInput(fmt.Sprintf("%s must be an integer", key))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
