package domain

// Chronotype is the user's circadian preference category, derived from the
// Morningness-Eveningness Questionnaire (MEQ) score.
type Chronotype string

const (
	ChronotypeEarlyBird    Chronotype = "early_bird"
	ChronotypeIntermediate Chronotype = "intermediate"
	ChronotypeNightOwl     Chronotype = "night_owl"
	ChronotypeUnknown      Chronotype = "unknown"
)

// MEQ score bounds. Scores outside this range are invalid input; a missing
// score maps to ChronotypeUnknown.
const (
	MEQMin = 16
	MEQMax = 86
)

// PrimeWindow is the 3-6 hour block of peak cognitive performance for a
// chronotype. Times are minutes from midnight.
type PrimeWindow struct {
	StartMinutes int
	EndMinutes   int
	Chronotype   Chronotype
}

// Contains reports whether the given hour falls inside the window.
func (w PrimeWindow) Contains(hour int) bool {
	return hour*60 >= w.StartMinutes && hour*60 < w.EndMinutes
}

// MidpointMinutes returns the center of the window.
func (w PrimeWindow) MidpointMinutes() int {
	return (w.StartMinutes + w.EndMinutes) / 2
}

// DurationMinutes returns the window length.
func (w PrimeWindow) DurationMinutes() int {
	return w.EndMinutes - w.StartMinutes
}
