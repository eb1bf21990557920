package services

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// Sleep cycle constants. Teens run shorter, more numerous cycles.
const (
	teenCycleMinutes  = 50
	teenBaseCycles    = 11
	adultCycleMinutes = 90
	adultBaseCycles   = 5

	// sleepOnsetMinutes is added on top of the cycle total to get time
	// in bed.
	sleepOnsetMinutes = 15

	// wakeWorkLeadMinutes is the margin between waking and the start of
	// work (before commute) enforced by the work-conflict override.
	wakeWorkLeadMinutes = 30

	// bedtimeGridMinutes is the grid bedtimes snap down to.
	bedtimeGridMinutes = 30
)

// Fallback window used when sleep calculation cannot produce a sane result:
// 23:00 to 07:00.
const (
	fallbackBedtimeMinutes = 23 * 60
	fallbackWakeMinutes    = 7 * 60
)

// Chronotype default wake times, minutes from midnight.
var defaultWakeMinutes = map[domain.Chronotype]int{
	domain.ChronotypeEarlyBird:    6 * 60,
	domain.ChronotypeIntermediate: 7*60 + 30,
	domain.ChronotypeNightOwl:     9 * 60,
	domain.ChronotypeUnknown:      7*60 + 30,
}

// Age-group x chronotype phase shift in minutes; positive shifts wake later.
var phaseShiftMinutes = map[string]map[domain.Chronotype]int{
	"teen": {
		domain.ChronotypeEarlyBird:    0,
		domain.ChronotypeIntermediate: 30,
		domain.ChronotypeNightOwl:     120,
		domain.ChronotypeUnknown:      30,
	},
	"adult": {
		domain.ChronotypeEarlyBird:    0,
		domain.ChronotypeIntermediate: 30,
		domain.ChronotypeNightOwl:     90,
		domain.ChronotypeUnknown:      30,
	},
	"senior": {
		domain.ChronotypeEarlyBird:    -30,
		domain.ChronotypeIntermediate: 0,
		domain.ChronotypeNightOwl:     60,
		domain.ChronotypeUnknown:      0,
	},
}

// SleepInput carries everything the calculator needs.
type SleepInput struct {
	Age        int
	Chronotype domain.Chronotype
	Need       domain.SleepNeed
	// TargetWakeMinutes overrides the chronotype default wake time and
	// suppresses the phase shift.
	TargetWakeMinutes *int
	// WorkStartMinutes and CommuteMinutes drive the work-conflict
	// override.
	WorkStartMinutes *int
	CommuteMinutes   int
}

// SleepResult is the calculator output. The calculator never aborts the
// pipeline: on failure it falls back to a default window and reports a
// warning.
type SleepResult struct {
	Metrics  domain.SleepMetrics
	Warnings []string
}

// SleepCalculator derives the ideal sleep window from age, chronotype, and
// sleep need.
type SleepCalculator struct {
	logger *slog.Logger
}

// NewSleepCalculator creates a sleep calculator.
func NewSleepCalculator(logger *slog.Logger) *SleepCalculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SleepCalculator{logger: logger}
}

// Calculate computes the ideal sleep window. Bedtime snaps down to the
// half-hour grid; the morning projection follows the snapped bedtime so the
// produced sleep window stays contiguous.
func (c *SleepCalculator) Calculate(in SleepInput) SleepResult {
	var warnings []string

	if in.Age < domain.AgeMin || in.Age > domain.AgeMax {
		return c.fallback(warnings, fmt.Sprintf("age %d out of range", in.Age))
	}

	duration := c.idealDuration(in.Age, in.Need)
	timeInBed := duration + sleepOnsetMinutes

	wake, ok := c.wakeTime(in)
	if !ok {
		return c.fallback(warnings, "no default wake time for chronotype")
	}

	// Work-conflict override: wake early enough to commute and settle in.
	if in.WorkStartMinutes != nil {
		latestWake := *in.WorkStartMinutes - in.CommuteMinutes - wakeWorkLeadMinutes
		if latestWake < 0 {
			latestWake = 0
		}
		if latestWake < wake {
			warnings = append(warnings, fmt.Sprintf(
				"wake time adjusted from %s to %s to accommodate work start",
				domain.FormatMinutes(wake), domain.FormatMinutes(latestWake)))
			wake = latestWake
		}
	}

	bedtime := floorToGrid(wake-timeInBed, bedtimeGridMinutes)
	// Keep the window contiguous after snapping.
	timeInBed = wake - bedtime

	if timeInBed <= 0 || timeInBed >= domain.MinutesPerDay {
		return c.fallback(warnings, fmt.Sprintf("computed time in bed %d minutes is not plausible", timeInBed))
	}

	metrics := domain.SleepMetrics{
		DurationMinutes:  duration,
		TimeInBedMinutes: timeInBed,
		BedtimeMinutes:   bedtime + domain.MinutesPerDay,
		WakeMinutes:      wake,
	}

	c.logger.Debug("sleep window computed",
		"chronotype", in.Chronotype,
		"wake", domain.FormatMinutes(metrics.WakeMinutes),
		"bedtime", domain.FormatMinutes(metrics.BedtimeMinutes),
		"duration_minutes", metrics.DurationMinutes,
	)

	return SleepResult{Metrics: metrics, Warnings: warnings}
}

// idealDuration derives sleep duration from whole sleep cycles.
func (c *SleepCalculator) idealDuration(age int, need domain.SleepNeed) int {
	cycleLength := adultCycleMinutes
	cycles := adultBaseCycles
	if age < domain.AdultAge {
		cycleLength = teenCycleMinutes
		cycles = teenBaseCycles
	}
	return (cycles + need.CycleAdjustment()) * cycleLength
}

// wakeTime resolves the wake time: caller-supplied target wake as-is, or
// the chronotype default plus the age x chronotype phase shift.
func (c *SleepCalculator) wakeTime(in SleepInput) (int, bool) {
	if in.TargetWakeMinutes != nil {
		return *in.TargetWakeMinutes, true
	}

	base, ok := defaultWakeMinutes[in.Chronotype]
	if !ok {
		return 0, false
	}

	group := "adult"
	switch {
	case in.Age < domain.AdultAge:
		group = "teen"
	case in.Age >= domain.SeniorAge:
		group = "senior"
	}
	return base + phaseShiftMinutes[group][in.Chronotype], true
}

// fallback returns the default 23:00-07:00 window with a warning attached.
func (c *SleepCalculator) fallback(warnings []string, reason string) SleepResult {
	c.logger.Warn("sleep calculation fell back to defaults", "reason", reason)
	warnings = append(warnings, fmt.Sprintf("sleep calculation failed (%s); using default 23:00-07:00 window", reason))
	timeInBed := domain.MinutesPerDay - fallbackBedtimeMinutes + fallbackWakeMinutes
	return SleepResult{
		Metrics: domain.SleepMetrics{
			DurationMinutes:  timeInBed - sleepOnsetMinutes,
			TimeInBedMinutes: timeInBed,
			BedtimeMinutes:   fallbackBedtimeMinutes,
			WakeMinutes:      fallbackWakeMinutes,
		},
		Warnings: warnings,
	}
}

// floorToGrid rounds v down to a multiple of grid, correctly for negative
// values.
func floorToGrid(v, grid int) int {
	if v >= 0 {
		return v - v%grid
	}
	rem := (-v) % grid
	if rem == 0 {
		return v
	}
	return v - (grid - rem)
}
