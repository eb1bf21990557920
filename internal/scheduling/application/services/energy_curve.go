package services

import (
	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// Shoulder and off-peak curve constants. The shoulder spans up to two hours
// on either side of the prime window.
const (
	shoulderHours = 2

	primePeakEnergy = 1.0
	primeEdgeEnergy = 0.9

	shoulderNearEnergy = 0.75
	shoulderFarEnergy  = 0.65
	shoulderRampBoost  = 0.05

	offPeakEnergy     = 0.4
	offPeakNearPrime  = 0.5
	offPeakLowEnergy  = 0.3
	earlyBirdLowHour  = 20
	nightOwlLowBefore = 9
)

// EnergyCurveGenerator synthesizes the 24-hour energy pattern from the
// chronotype, prime window, and sleep window.
type EnergyCurveGenerator struct{}

// NewEnergyCurveGenerator creates a generator.
func NewEnergyCurveGenerator() *EnergyCurveGenerator {
	return &EnergyCurveGenerator{}
}

// Generate builds the hourly pattern. Rules apply in order per hour: sleep
// zeroes the hour unconditionally, then prime, shoulder, and off-peak.
func (g *EnergyCurveGenerator) Generate(
	chronotype domain.Chronotype,
	prime domain.PrimeWindow,
	sleep domain.SleepMetrics,
) domain.EnergyPattern {
	var pattern domain.EnergyPattern
	for hour := 0; hour < 24; hour++ {
		switch {
		case g.isAsleep(hour, sleep):
			pattern[hour] = 0.0
		case prime.Contains(hour):
			pattern[hour] = g.primeEnergy(hour, prime)
		case g.shoulderDistance(hour, prime) <= shoulderHours:
			pattern[hour] = g.shoulderEnergy(hour, prime, chronotype)
		default:
			pattern[hour] = g.offPeakEnergy(hour, prime, chronotype)
		}
	}
	return pattern
}

// isAsleep checks whether the hour's midpoint falls within the sleep
// window, handling the midnight crossing.
func (g *EnergyCurveGenerator) isAsleep(hour int, sleep domain.SleepMetrics) bool {
	mid := hour*60 + 30
	// Morning tail of last night's sleep.
	if mid < sleep.WakeMinutes && mid >= maxInt(0, sleep.PreviousBedtimeProjection()) {
		return true
	}
	// Tonight's sleep, when bedtime lands before midnight.
	return sleep.BedtimeTonight() && mid >= sleep.BedtimeMinutes
}

// primeEnergy peaks at the window midpoint and tapers linearly to the edge
// value at the boundaries.
func (g *EnergyCurveGenerator) primeEnergy(hour int, prime domain.PrimeWindow) float64 {
	mid := float64(prime.MidpointMinutes())
	half := float64(prime.DurationMinutes()) / 2
	if half == 0 {
		return primePeakEnergy
	}
	dist := float64(hour*60+30) - mid
	if dist < 0 {
		dist = -dist
	}
	if dist > half {
		dist = half
	}
	return primePeakEnergy - (primePeakEnergy-primeEdgeEnergy)*(dist/half)
}

// shoulderDistance returns how many whole hours the hour sits outside the
// prime window (0 when inside).
func (g *EnergyCurveGenerator) shoulderDistance(hour int, prime domain.PrimeWindow) int {
	startHour := prime.StartMinutes / 60
	endHour := (prime.EndMinutes + 59) / 60
	switch {
	case hour < startHour:
		return startHour - hour
	case hour >= endHour:
		return hour - endHour + 1
	default:
		return 0
	}
}

// shoulderEnergy ramps between 0.6 and 0.8. Early birds climb faster into
// their morning prime; night owls climb faster into their evening prime.
func (g *EnergyCurveGenerator) shoulderEnergy(hour int, prime domain.PrimeWindow, chronotype domain.Chronotype) float64 {
	dist := g.shoulderDistance(hour, prime)
	energy := shoulderNearEnergy
	if dist >= shoulderHours {
		energy = shoulderFarEnergy
	}

	before := hour*60 < prime.StartMinutes
	switch chronotype {
	case domain.ChronotypeEarlyBird:
		if before {
			energy += shoulderRampBoost
		} else {
			energy -= shoulderRampBoost
		}
	case domain.ChronotypeNightOwl:
		if before {
			energy -= shoulderRampBoost
		} else {
			energy += shoulderRampBoost
		}
	}
	return energy
}

// offPeakEnergy stays in [0.3, 0.5] with chronotype-specific lows.
func (g *EnergyCurveGenerator) offPeakEnergy(hour int, prime domain.PrimeWindow, chronotype domain.Chronotype) float64 {
	switch chronotype {
	case domain.ChronotypeEarlyBird:
		if hour >= earlyBirdLowHour {
			return offPeakLowEnergy
		}
	case domain.ChronotypeNightOwl:
		if hour < nightOwlLowBefore {
			return offPeakLowEnergy
		}
	}
	// Hours just beyond the shoulder keep a little residual energy.
	if g.shoulderDistance(hour, prime) <= shoulderHours+1 {
		return offPeakNearPrime
	}
	return offPeakEnergy
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
