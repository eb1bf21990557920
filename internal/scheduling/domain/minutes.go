package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of the scheduling horizon. Every block lives
// inside [0, MinutesPerDay] minutes from the target day's midnight.
const MinutesPerDay = 24 * 60

// FormatMinutes renders minutes-from-midnight as a 24-hour "HH:MM" string.
// Values outside a single day are wrapped, so 1455 renders as "00:15".
func FormatMinutes(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses a 24-hour "HH:MM" string into minutes from midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, NewInvalidInput(fmt.Sprintf("invalid time %q: expected HH:MM", clock))
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, NewInvalidInput(fmt.Sprintf("invalid hour in %q", clock))
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, NewInvalidInput(fmt.Sprintf("invalid minute in %q", clock))
	}

	return hour*60 + minute, nil
}
