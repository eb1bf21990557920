package services

import (
	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// Gap thresholds in minutes.
const (
	freeTimeMinMinutes   = 45
	shortBreakMinMinutes = 15
)

// GapFiller pads every uncovered minute of the day with a break block so
// the final schedule covers midnight to midnight without holes.
type GapFiller struct{}

// NewGapFiller creates a gap filler.
func NewGapFiller() *GapFiller {
	return &GapFiller{}
}

// Fill returns the blocks with gaps replaced by break blocks. The input
// must be non-overlapping and sorted by start.
func (g *GapFiller) Fill(blocks []domain.ScheduleBlock) []domain.ScheduleBlock {
	filled := make([]domain.ScheduleBlock, 0, len(blocks)*2)
	cursor := 0
	for _, b := range blocks {
		if b.StartMinutes > cursor {
			filled = append(filled, gapBlock(cursor, b.StartMinutes))
		}
		filled = append(filled, b)
		if b.EndMinutes > cursor {
			cursor = b.EndMinutes
		}
	}
	if cursor < domain.MinutesPerDay {
		filled = append(filled, gapBlock(cursor, domain.MinutesPerDay))
	}
	return filled
}

func gapBlock(start, end int) domain.ScheduleBlock {
	duration := end - start
	switch {
	case duration >= freeTimeMinMinutes:
		return domain.ScheduleBlock{Type: domain.BlockFreeTime, Name: "Free Time", StartMinutes: start, EndMinutes: end}
	case duration >= shortBreakMinMinutes:
		return domain.ScheduleBlock{Type: domain.BlockShortBreak, Name: "Short Break", StartMinutes: start, EndMinutes: end}
	default:
		return domain.ScheduleBlock{Type: domain.BlockQuickBreak, Name: "Quick Break", StartMinutes: start, EndMinutes: end}
	}
}
