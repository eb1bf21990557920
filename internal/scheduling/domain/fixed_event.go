package domain

import "fmt"

// FixedEvent is a non-movable time block, such as a meeting or appointment.
// Fixed events appear in the output unchanged.
type FixedEvent struct {
	ID           string
	Title        string
	StartMinutes int
	EndMinutes   int
	Type         string
}

// Validate checks the event's time range.
func (e FixedEvent) Validate() error {
	if e.ID == "" {
		return NewInvalidInput("fixed event id must not be empty")
	}
	if e.StartMinutes < 0 || e.EndMinutes > MinutesPerDay {
		return NewInvalidInput(fmt.Sprintf("fixed event %s: range [%d, %d] outside day", e.ID, e.StartMinutes, e.EndMinutes))
	}
	if e.StartMinutes >= e.EndMinutes {
		return NewInvalidInput(fmt.Sprintf("fixed event %s: start %d not before end %d", e.ID, e.StartMinutes, e.EndMinutes))
	}
	return nil
}

// OverlapsWith reports whether two fixed events share at least one minute.
func (e FixedEvent) OverlapsWith(other FixedEvent) bool {
	return max(e.StartMinutes, other.StartMinutes) < min(e.EndMinutes, other.EndMinutes)
}

// ValidateFixedEvents validates each event and rejects overlapping pairs.
func ValidateFixedEvents(events []FixedEvent) error {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	for i := range events {
		for j := i + 1; j < len(events); j++ {
			if events[i].OverlapsWith(events[j]) {
				return NewInvalidInput(fmt.Sprintf("fixed events %s and %s overlap", events[i].ID, events[j].ID))
			}
		}
	}
	return nil
}
