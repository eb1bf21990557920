package domain

import "fmt"

// Age bounds accepted by the sleep calculator.
const (
	AgeMin = 0
	AgeMax = 120
)

// Age-group boundaries for the chronotype phase-shift matrix.
const (
	AdultAge  = 18
	SeniorAge = 65
)

// UserProfile carries the biological inputs to the pipeline.
type UserProfile struct {
	Age      int
	MEQScore *int
	// SleepNeed overrides the preference scale when set.
	SleepNeed *SleepNeed
}

// Validate checks age, MEQ score, and the sleep-need override.
func (p UserProfile) Validate() error {
	if p.Age < AgeMin || p.Age > AgeMax {
		return NewInvalidInput(fmt.Sprintf("age %d out of range [%d, %d]", p.Age, AgeMin, AgeMax))
	}
	if p.MEQScore != nil {
		if s := *p.MEQScore; s < MEQMin || s > MEQMax {
			return NewInvalidInput(fmt.Sprintf("meq score %d out of range [%d, %d]", s, MEQMin, MEQMax))
		}
	}
	if p.SleepNeed != nil && !p.SleepNeed.IsValid() {
		return NewInvalidInput(fmt.Sprintf("unknown sleep need %q", *p.SleepNeed))
	}
	return nil
}

// IsTeen reports whether the user is under the adult age boundary.
func (p UserProfile) IsTeen() bool {
	return p.Age < AdultAge
}

// IsSenior reports whether the user is at or above the senior age boundary.
func (p UserProfile) IsSenior() bool {
	return p.Age >= SeniorAge
}

// EffectiveSleepNeed resolves the profile override against the preference
// scale.
func (p UserProfile) EffectiveSleepNeed(prefs Preferences) SleepNeed {
	if p.SleepNeed != nil {
		return *p.SleepNeed
	}
	return prefs.SleepNeed()
}
