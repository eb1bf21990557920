package services

import (
	"fmt"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// BlockEnricher turns solver placements, fixed events, sleep metrics, and
// lifestyle preferences into candidate schedule blocks. Candidates may
// overlap; the conflict resolver arbitrates by block priority.
type BlockEnricher struct{}

// NewBlockEnricher creates an enricher.
func NewBlockEnricher() *BlockEnricher {
	return &BlockEnricher{}
}

// EnrichInput carries everything the enricher lays onto the day.
type EnrichInput struct {
	Tasks       []domain.Task
	Placements  []Placement
	FixedEvents []domain.FixedEvent
	Sleep       domain.SleepMetrics
	Preferences domain.Preferences
}

// Enrich builds the candidate block list in ascending start order.
func (e *BlockEnricher) Enrich(in EnrichInput) []domain.ScheduleBlock {
	var blocks []domain.ScheduleBlock

	blocks = append(blocks, e.sleepBlocks(in.Sleep)...)

	for _, ev := range in.FixedEvents {
		blocks = append(blocks, domain.ScheduleBlock{
			Type:         domain.BlockFixedEvent,
			Name:         ev.Title,
			StartMinutes: ev.StartMinutes,
			EndMinutes:   ev.EndMinutes,
			ReferenceID:  ev.ID,
		})
	}

	titles := make(map[string]string, len(in.Tasks))
	for _, t := range in.Tasks {
		titles[t.ID] = t.Title
	}
	for _, p := range in.Placements {
		name := titles[p.TaskID]
		if name == "" {
			name = p.TaskID
		}
		blocks = append(blocks, domain.ScheduleBlock{
			Type:         domain.BlockTask,
			Name:         name,
			StartMinutes: p.StartMinutes,
			EndMinutes:   p.EndMinutes,
			ReferenceID:  p.TaskID,
		})
	}

	blocks = append(blocks, e.mealBlocks(in.Preferences)...)
	blocks = append(blocks, e.routineBlocks(in.Sleep, in.Preferences)...)
	blocks = append(blocks, e.activityBlocks(in.Preferences)...)

	sortBlocks(blocks)
	return blocks
}

// sleepBlocks renders tonight's sleep window as up to two same-day blocks:
// the morning tail of last night's sleep, and the evening onset when bedtime
// falls before midnight.
func (e *BlockEnricher) sleepBlocks(sleep domain.SleepMetrics) []domain.ScheduleBlock {
	var blocks []domain.ScheduleBlock

	morningStart := sleep.PreviousBedtimeProjection()
	// A negative projection means last night's sleep began before midnight.
	crossedMidnight := morningStart < 0
	if crossedMidnight {
		morningStart = 0
	}
	if morningStart < sleep.WakeMinutes {
		blocks = append(blocks, domain.ScheduleBlock{
			Type:         domain.BlockSleep,
			Name:         "Sleep",
			StartMinutes: morningStart,
			EndMinutes:   sleep.WakeMinutes,
			NextDay:      crossedMidnight,
		})
	}

	if sleep.BedtimeTonight() {
		blocks = append(blocks, domain.ScheduleBlock{
			Type:         domain.BlockSleep,
			Name:         "Sleep",
			StartMinutes: sleep.BedtimeMinutes,
			EndMinutes:   domain.MinutesPerDay,
			NextDay:      true,
		})
	}
	return blocks
}

func (e *BlockEnricher) mealBlocks(prefs domain.Preferences) []domain.ScheduleBlock {
	meals := []struct {
		name string
		pref domain.MealPreference
	}{
		{"Breakfast", prefs.Breakfast},
		{"Lunch", prefs.Lunch},
		{"Dinner", prefs.Dinner},
	}

	var blocks []domain.ScheduleBlock
	for _, m := range meals {
		if !m.pref.Enabled {
			continue
		}
		end := m.pref.StartMinutes + m.pref.DurationMinutes
		if end > domain.MinutesPerDay {
			end = domain.MinutesPerDay
		}
		if end <= m.pref.StartMinutes {
			continue
		}
		blocks = append(blocks, domain.ScheduleBlock{
			Type:         domain.BlockMeal,
			Name:         m.name,
			StartMinutes: m.pref.StartMinutes,
			EndMinutes:   end,
		})
	}
	return blocks
}

// routineBlocks anchors the morning routine to wake and the evening routine
// to bedtime. With no bedtime tonight the evening routine ends the day.
func (e *BlockEnricher) routineBlocks(sleep domain.SleepMetrics, prefs domain.Preferences) []domain.ScheduleBlock {
	var blocks []domain.ScheduleBlock

	if d := prefs.MorningRoutineMinutes; d > 0 {
		end := sleep.WakeMinutes + d
		if end > domain.MinutesPerDay {
			end = domain.MinutesPerDay
		}
		if end > sleep.WakeMinutes {
			blocks = append(blocks, domain.ScheduleBlock{
				Type:         domain.BlockRoutine,
				Name:         "Morning Routine",
				StartMinutes: sleep.WakeMinutes,
				EndMinutes:   end,
			})
		}
	}

	if d := prefs.EveningRoutineMinutes; d > 0 {
		anchor := domain.MinutesPerDay
		if sleep.BedtimeTonight() {
			anchor = sleep.BedtimeMinutes
		}
		start := anchor - d
		if start < 0 {
			start = 0
		}
		if start < anchor {
			blocks = append(blocks, domain.ScheduleBlock{
				Type:         domain.BlockRoutine,
				Name:         "Evening Routine",
				StartMinutes: start,
				EndMinutes:   anchor,
			})
		}
	}
	return blocks
}

func (e *BlockEnricher) activityBlocks(prefs domain.Preferences) []domain.ScheduleBlock {
	var blocks []domain.ScheduleBlock
	for i, a := range prefs.Activities {
		end := a.StartMinutes + a.DurationMinutes
		if end > domain.MinutesPerDay {
			end = domain.MinutesPerDay
		}
		if end <= a.StartMinutes {
			continue
		}
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("Activity %d", i+1)
		}
		blocks = append(blocks, domain.ScheduleBlock{
			Type:         domain.BlockActivity,
			Name:         name,
			StartMinutes: a.StartMinutes,
			EndMinutes:   end,
		})
	}
	return blocks
}
