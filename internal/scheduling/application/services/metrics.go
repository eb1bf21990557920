package services

import (
	"math"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// MetricsCalculator summarizes a finished schedule: minutes per block type,
// task completion, and the work-life balance ratio.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a calculator.
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Calculate computes the schedule metrics. taskCount is the number of
// incomplete tasks requested and placedCount how many the solver scheduled.
func (m *MetricsCalculator) Calculate(blocks []domain.ScheduleBlock, taskCount, placedCount int) map[string]float64 {
	minutes := make(map[domain.BlockType]int)
	for _, b := range blocks {
		minutes[b.Type] += b.DurationMinutes()
	}

	metrics := make(map[string]float64)
	for _, t := range []domain.BlockType{
		domain.BlockTask,
		domain.BlockFixedEvent,
		domain.BlockSleep,
		domain.BlockMeal,
		domain.BlockRoutine,
		domain.BlockActivity,
		domain.BlockBreak,
		domain.BlockQuickBreak,
		domain.BlockShortBreak,
		domain.BlockFreeTime,
	} {
		metrics[string(t)+"_minutes"] = float64(minutes[t])
	}

	completion := 100.0
	if taskCount > 0 {
		completion = float64(placedCount) / float64(taskCount) * 100
	}
	metrics["task_completion_pct"] = round1(completion)

	productive := minutes[domain.BlockTask] + minutes[domain.BlockActivity]
	personal := minutes[domain.BlockMeal] + minutes[domain.BlockRoutine]
	rest := minutes[domain.BlockSleep] +
		minutes[domain.BlockBreak] + minutes[domain.BlockQuickBreak] + minutes[domain.BlockShortBreak] +
		minutes[domain.BlockFreeTime]
	metrics["productive_minutes"] = float64(productive)
	metrics["personal_minutes"] = float64(personal)
	metrics["rest_minutes"] = float64(rest)
	metrics["work_life_ratio"] = round1(float64(personal) / math.Max(1, float64(productive)) * 100)

	return metrics
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
