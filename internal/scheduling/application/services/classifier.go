// Package services implements the stages of the schedule generation
// pipeline: chronotype classification, sleep window derivation, energy
// curve synthesis, task placement, block enrichment, conflict resolution,
// gap filling, and schedule metrics.
package services

import (
	"fmt"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// meqRange maps a closed MEQ score range onto a chronotype and its prime
// productive window. The ranges partition [MEQMin, MEQMax].
type meqRange struct {
	low, high  int
	chronotype domain.Chronotype
	primeStart int
	primeEnd   int
}

// The classification table. Read-only after initialization and safe to
// share across concurrent requests.
var meqRanges = []meqRange{
	{low: 16, high: 41, chronotype: domain.ChronotypeNightOwl, primeStart: 17 * 60, primeEnd: 22 * 60},
	{low: 42, high: 58, chronotype: domain.ChronotypeIntermediate, primeStart: 10 * 60, primeEnd: 16 * 60},
	{low: 59, high: 86, chronotype: domain.ChronotypeEarlyBird, primeStart: 7 * 60, primeEnd: 11 * 60},
}

// Prime window used when no MEQ score is available.
const (
	unknownPrimeStart = 10 * 60
	unknownPrimeEnd   = 14 * 60
)

// ChronotypeClassifier maps MEQ scores onto chronotype categories.
type ChronotypeClassifier struct{}

// NewChronotypeClassifier creates a classifier.
func NewChronotypeClassifier() *ChronotypeClassifier {
	return &ChronotypeClassifier{}
}

// Classify resolves an optional MEQ score to a chronotype and prime window.
// A missing score is not an error: it maps to ChronotypeUnknown with a
// midday prime window. Out-of-range scores are invalid input.
func (c *ChronotypeClassifier) Classify(meqScore *int) (domain.Chronotype, domain.PrimeWindow, error) {
	if meqScore == nil {
		return domain.ChronotypeUnknown, domain.PrimeWindow{
			StartMinutes: unknownPrimeStart,
			EndMinutes:   unknownPrimeEnd,
			Chronotype:   domain.ChronotypeUnknown,
		}, nil
	}

	score := *meqScore
	if score < domain.MEQMin || score > domain.MEQMax {
		return domain.ChronotypeUnknown, domain.PrimeWindow{}, domain.NewInvalidInput(
			fmt.Sprintf("meq score %d out of range [%d, %d]", score, domain.MEQMin, domain.MEQMax))
	}

	for _, r := range meqRanges {
		if score >= r.low && score <= r.high {
			return r.chronotype, domain.PrimeWindow{
				StartMinutes: r.primeStart,
				EndMinutes:   r.primeEnd,
				Chronotype:   r.chronotype,
			}, nil
		}
	}

	// Unreachable: the ranges cover [MEQMin, MEQMax].
	return domain.ChronotypeUnknown, domain.PrimeWindow{}, domain.NewInternal(
		fmt.Sprintf("meq score %d not covered by classification table", score))
}
