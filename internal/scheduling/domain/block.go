package domain

// BlockType tags every interval in the generated schedule.
type BlockType string

const (
	BlockTask       BlockType = "task"
	BlockFixedEvent BlockType = "fixed_event"
	BlockSleep      BlockType = "sleep"
	BlockMeal       BlockType = "meal"
	BlockRoutine    BlockType = "routine"
	BlockActivity   BlockType = "activity"
	BlockBreak      BlockType = "break"
	BlockQuickBreak BlockType = "quick_break"
	BlockShortBreak BlockType = "short_break"
	BlockFreeTime   BlockType = "free_time"
)

// ResolutionPriority orders block types for conflict resolution; higher
// wins. All break flavors share the lowest priority.
func (t BlockType) ResolutionPriority() int {
	switch t {
	case BlockSleep:
		return 7
	case BlockFixedEvent:
		return 6
	case BlockTask:
		return 5
	case BlockMeal:
		return 4
	case BlockRoutine:
		return 3
	case BlockActivity:
		return 2
	default:
		return 1
	}
}

// IsBreak reports whether the type is one of the gap-filling break flavors.
func (t BlockType) IsBreak() bool {
	switch t {
	case BlockBreak, BlockQuickBreak, BlockShortBreak, BlockFreeTime:
		return true
	default:
		return false
	}
}

// ScheduleBlock is the universal output element: a typed, named interval in
// minutes from the target day's midnight.
type ScheduleBlock struct {
	Type         BlockType
	Name         string
	StartMinutes int
	EndMinutes   int
	// ReferenceID links task and fixed-event blocks back to their input.
	ReferenceID string
	// NextDay marks sleep blocks that cross midnight: the morning block
	// started the previous evening, the evening block ends the next day.
	NextDay bool
}

// DurationMinutes returns the block length.
func (b ScheduleBlock) DurationMinutes() int {
	return b.EndMinutes - b.StartMinutes
}

// OverlapsWith reports whether two blocks share at least one minute.
func (b ScheduleBlock) OverlapsWith(other ScheduleBlock) bool {
	return max(b.StartMinutes, other.StartMinutes) < min(b.EndMinutes, other.EndMinutes)
}

// Contains reports whether the minute falls within the block.
func (b ScheduleBlock) Contains(minute int) bool {
	return minute >= b.StartMinutes && minute < b.EndMinutes
}
