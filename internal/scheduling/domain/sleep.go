package domain

// SleepNeed is the user's self-reported sleep requirement. It adjusts the
// number of sleep cycles by one in either direction.
type SleepNeed string

const (
	SleepNeedLow    SleepNeed = "low"
	SleepNeedMedium SleepNeed = "medium"
	SleepNeedHigh   SleepNeed = "high"
)

// IsValid reports whether the need is one of the known values.
func (n SleepNeed) IsValid() bool {
	switch n {
	case SleepNeedLow, SleepNeedMedium, SleepNeedHigh:
		return true
	default:
		return false
	}
}

// CycleAdjustment returns the cycle delta for the need.
func (n SleepNeed) CycleAdjustment() int {
	switch n {
	case SleepNeedLow:
		return -1
	case SleepNeedHigh:
		return 1
	default:
		return 0
	}
}

// SleepNeedFromScale maps a 0-100 preference slider onto a need category:
// below 40 is low, above 60 is high, everything between is medium.
func SleepNeedFromScale(scale int) SleepNeed {
	switch {
	case scale < 40:
		return SleepNeedLow
	case scale > 60:
		return SleepNeedHigh
	default:
		return SleepNeedMedium
	}
}

// SleepMetrics describes the computed sleep window for the target day.
//
// WakeMinutes is minutes from the target day's midnight (0-1439).
// BedtimeMinutes is relative to the same midnight and refers to tonight's
// bedtime, so 1380 means 23:00 today and 1500 means 01:00 the next day.
// The previous night's bedtime projects to WakeMinutes minus
// TimeInBedMinutes, which is negative when last night's bedtime was before
// midnight.
type SleepMetrics struct {
	DurationMinutes  int
	TimeInBedMinutes int
	BedtimeMinutes   int
	WakeMinutes      int
}

// PreviousBedtimeProjection returns last night's bedtime relative to the
// target day's midnight (usually negative).
func (m SleepMetrics) PreviousBedtimeProjection() int {
	return m.WakeMinutes - m.TimeInBedMinutes
}

// BedtimeTonight reports whether tonight's bedtime lands before the end of
// the target day. When false the upcoming sleep starts after midnight and
// contributes no block to today's timeline.
func (m SleepMetrics) BedtimeTonight() bool {
	return m.BedtimeMinutes < MinutesPerDay
}

// QualityScore rates actual sleep (start and end in minutes relative to the
// target day's midnight, start may be negative) against the ideal window on
// a 0-100 scale. Duration accounts for 70 points, bedtime timing for 30.
func (m SleepMetrics) QualityScore(actualStart, actualEnd int) int {
	actualDuration := actualEnd - actualStart
	if actualDuration <= 0 {
		return 0
	}

	durationScore := 70.0
	if diff := abs(actualDuration - m.TimeInBedMinutes); diff > 0 {
		penalty := float64(diff) / float64(m.TimeInBedMinutes) * 70
		if penalty > 70 {
			penalty = 70
		}
		durationScore -= penalty
	}

	timingScore := 30.0
	if diff := abs(actualStart - m.PreviousBedtimeProjection()); diff > 0 {
		// 15 points per hour of drift.
		penalty := float64(diff) / 60 * 15
		if penalty > 30 {
			penalty = 30
		}
		timingScore -= penalty
	}

	return int(durationScore + timingScore + 0.5)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
