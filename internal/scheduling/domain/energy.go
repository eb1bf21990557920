package domain

// EnergyPattern is a total function from hour of day to circadian energy in
// [0.0, 1.0]. Sleep hours are exactly 0.
type EnergyPattern [24]float64

// At returns the energy for an hour; hours outside [0, 23] wrap around.
func (p EnergyPattern) At(hour int) float64 {
	return p[((hour%24)+24)%24]
}

// AverageOver returns the mean energy across the minute range [start, end).
// Partial hours are weighted by the minutes they contribute.
func (p EnergyPattern) AverageOver(startMinutes, endMinutes int) float64 {
	if endMinutes <= startMinutes {
		return 0
	}
	total := 0.0
	for m := startMinutes; m < endMinutes; {
		hourEnd := (m/60 + 1) * 60
		if hourEnd > endMinutes {
			hourEnd = endMinutes
		}
		total += p.At(m/60) * float64(hourEnd-m)
		m = hourEnd
	}
	return total / float64(endMinutes-startMinutes)
}
