package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GeneratedSchedule is the pipeline's single output: a chronologically
// ordered, gap-free block sequence covering the full day, plus metrics and
// non-fatal warnings.
type GeneratedSchedule struct {
	ScheduleID  uuid.UUID
	UserID      string
	TargetDate  time.Time
	Blocks      []ScheduleBlock
	Metrics     map[string]float64
	Warnings    []string
	GeneratedAt time.Time
}

// CheckCoverage verifies the schedule covers the full day: blocks sorted and
// adjacent, first block at 0, last block at MinutesPerDay, no overlaps.
// A violation is an internal error; the final stages are total by contract.
func (s *GeneratedSchedule) CheckCoverage() error {
	if len(s.Blocks) == 0 {
		return NewInternal("schedule has no blocks")
	}
	if first := s.Blocks[0].StartMinutes; first != 0 {
		return NewInternal(fmt.Sprintf("first block starts at %d, want 0", first))
	}
	if last := s.Blocks[len(s.Blocks)-1].EndMinutes; last != MinutesPerDay {
		return NewInternal(fmt.Sprintf("last block ends at %d, want %d", last, MinutesPerDay))
	}
	for i, block := range s.Blocks {
		if block.StartMinutes >= block.EndMinutes {
			return NewInternal(fmt.Sprintf("block %d (%s) has empty range [%d, %d]", i, block.Name, block.StartMinutes, block.EndMinutes))
		}
		if i > 0 && s.Blocks[i-1].EndMinutes != block.StartMinutes {
			return NewInternal(fmt.Sprintf("coverage gap between blocks %d and %d: %d != %d", i-1, i, s.Blocks[i-1].EndMinutes, block.StartMinutes))
		}
	}
	return nil
}

// BlocksOfType returns the blocks of the given type, preserving order.
func (s *GeneratedSchedule) BlocksOfType(blockType BlockType) []ScheduleBlock {
	var out []ScheduleBlock
	for _, b := range s.Blocks {
		if b.Type == blockType {
			out = append(out, b)
		}
	}
	return out
}
