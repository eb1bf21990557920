package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// Objective weights. Placement count and priority order dominate because
// tasks are placed greedily in priority order; the weights below rank the
// candidate starts for a single task.
const (
	energyWeight  = 1.0
	urgencyWeight = 1.5
	// earlierStartEpsilon breaks score ties toward earlier starts.
	earlierStartEpsilon = 1e-6

	// candidateGridMinutes is the spacing of candidate starts inside a
	// free gap, beyond the gap's leading edge.
	candidateGridMinutes = 15
)

// DefaultSolverTimeLimit bounds a single solve call.
const DefaultSolverTimeLimit = 10 * time.Second

// Placement fixes a task in time.
type Placement struct {
	TaskID       string
	StartMinutes int
	EndMinutes   int
}

// Unplaced reports a task the solver could not schedule and why.
type Unplaced struct {
	TaskID string
	Reason string
}

// SolverInput carries the placement problem.
type SolverInput struct {
	Tasks           []domain.Task
	FixedEvents     []domain.FixedEvent
	Energy          domain.EnergyPattern
	DayStartMinutes int
	DayEndMinutes   int
	TargetDate      time.Time
}

// SolverOutput is the best placement found within the time budget.
type SolverOutput struct {
	Placements []Placement
	Unplaced   []Unplaced
	TimedOut   bool
}

// SolverConfig configures the solver.
type SolverConfig struct {
	TimeLimit time.Duration
}

// DefaultSolverConfig returns the default configuration.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{TimeLimit: DefaultSolverTimeLimit}
}

// Solver places tasks into the day window around fixed events, maximizing
// placements with energy alignment and deadline urgency. Placement order is
// fully deterministic: tasks are processed by (priority, deadline, id) under
// dependency order, and candidate ties resolve toward earlier starts.
type Solver struct {
	config SolverConfig
	logger *slog.Logger
}

// NewSolver creates a solver.
func NewSolver(config SolverConfig, logger *slog.Logger) *Solver {
	if config.TimeLimit <= 0 {
		config.TimeLimit = DefaultSolverTimeLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{config: config, logger: logger}
}

type interval struct {
	start, end int
}

// Solve places the incomplete tasks. Completed tasks are skipped but count
// as satisfied dependencies. Unsatisfiable tasks are reported, not forced.
func (s *Solver) Solve(ctx context.Context, in SolverInput) (SolverOutput, error) {
	if err := domain.ValidateFixedEvents(in.FixedEvents); err != nil {
		return SolverOutput{}, err
	}
	if in.DayStartMinutes >= in.DayEndMinutes {
		return SolverOutput{}, domain.NewInvalidInput(fmt.Sprintf(
			"day window [%d, %d] is empty", in.DayStartMinutes, in.DayEndMinutes))
	}

	started := time.Now()
	deadline := started.Add(s.config.TimeLimit)

	ordered, unplaced := s.orderTasks(in.Tasks)

	busy := make([]interval, 0, len(in.FixedEvents))
	for _, e := range in.FixedEvents {
		busy = append(busy, interval{start: e.StartMinutes, end: e.EndMinutes})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start < busy[j].start })

	out := SolverOutput{Unplaced: unplaced}
	placedEnd := make(map[string]int)

	for i, task := range ordered {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if time.Now().After(deadline) {
			out.TimedOut = true
			for _, rest := range ordered[i:] {
				out.Unplaced = append(out.Unplaced, Unplaced{TaskID: rest.ID, Reason: "solver time limit reached"})
			}
			break
		}

		placement, reason := s.placeTask(task, in, busy, placedEnd)
		if placement == nil {
			out.Unplaced = append(out.Unplaced, Unplaced{TaskID: task.ID, Reason: reason})
			continue
		}

		out.Placements = append(out.Placements, *placement)
		placedEnd[task.ID] = placement.EndMinutes
		busy = insertInterval(busy, interval{start: placement.StartMinutes, end: placement.EndMinutes})
	}

	sort.Slice(out.Placements, func(i, j int) bool {
		return out.Placements[i].StartMinutes < out.Placements[j].StartMinutes
	})
	sort.Slice(out.Unplaced, func(i, j int) bool { return out.Unplaced[i].TaskID < out.Unplaced[j].TaskID })

	s.logger.Debug("solver finished",
		"placed", len(out.Placements),
		"unplaced", len(out.Unplaced),
		"elapsed", time.Since(started),
	)
	return out, nil
}

// orderTasks returns incomplete tasks in deterministic dependency order and
// reports tasks excluded up front (circular or unsatisfiable dependencies).
func (s *Solver) orderTasks(tasks []domain.Task) ([]domain.Task, []Unplaced) {
	byID := make(map[string]domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	pending := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	// Deterministic base order: priority rank, then deadline, then id.
	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		switch {
		case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline == nil && b.Deadline != nil:
			return false
		}
		return a.ID < b.ID
	})

	// Kahn's algorithm preserving the base order. Completed dependencies
	// are already satisfied.
	remaining := make(map[string]int, len(pending))
	for _, t := range pending {
		count := 0
		for _, dep := range t.DependsOn {
			if d, ok := byID[dep]; ok && !d.Completed {
				count++
			}
		}
		remaining[t.ID] = count
	}

	var ordered []domain.Task
	done := make(map[string]bool)
	for {
		progressed := false
		for _, t := range pending {
			if done[t.ID] || remaining[t.ID] > 0 {
				continue
			}
			ordered = append(ordered, t)
			done[t.ID] = true
			progressed = true
			for _, other := range pending {
				if done[other.ID] {
					continue
				}
				for _, dep := range other.DependsOn {
					if dep == t.ID {
						remaining[other.ID]--
					}
				}
			}
		}
		if !progressed {
			break
		}
	}

	var unplaced []Unplaced
	for _, t := range pending {
		if !done[t.ID] {
			unplaced = append(unplaced, Unplaced{TaskID: t.ID, Reason: "circular dependency"})
		}
	}
	return ordered, unplaced
}

// placeTask finds the best start for one task given the current busy set.
func (s *Solver) placeTask(
	task domain.Task,
	in SolverInput,
	busy []interval,
	placedEnd map[string]int,
) (*Placement, string) {
	lo := in.DayStartMinutes
	if task.EarliestStartMinutes != nil && *task.EarliestStartMinutes > lo {
		lo = *task.EarliestStartMinutes
	}
	for _, dep := range task.DependsOn {
		if end, ok := placedEnd[dep]; ok && end > lo {
			lo = end
		} else if !ok {
			// Dependency neither completed nor placed.
			if !s.dependencyCompleted(dep, in.Tasks) {
				return nil, fmt.Sprintf("dependency %s not scheduled", dep)
			}
		}
	}

	hi := in.DayEndMinutes
	if deadlineMin, ok := task.DeadlineMinutes(in.TargetDate); ok && deadlineMin < hi {
		hi = deadlineMin
	}

	if hi-lo < task.DurationMinutes {
		return nil, fmt.Sprintf("duration %d minutes exceeds available window", task.DurationMinutes)
	}

	bestStart := -1
	bestScore := 0.0
	for _, gap := range freeGaps(busy, lo, hi) {
		for _, start := range candidateStarts(gap, task.DurationMinutes) {
			score := s.scoreStart(task, in, start, lo, hi)
			if bestStart == -1 || score > bestScore {
				bestStart = start
				bestScore = score
			}
		}
	}

	if bestStart == -1 {
		return nil, "no free slot fits the task"
	}
	return &Placement{
		TaskID:       task.ID,
		StartMinutes: bestStart,
		EndMinutes:   bestStart + task.DurationMinutes,
	}, ""
}

func (s *Solver) dependencyCompleted(depID string, tasks []domain.Task) bool {
	for _, t := range tasks {
		if t.ID == depID {
			return t.Completed
		}
	}
	return false
}

// scoreStart ranks a candidate start: energy alignment, hyperbolic deadline
// urgency favoring earlier placement, and an earlier-start tie-break.
func (s *Solver) scoreStart(task domain.Task, in SolverInput, start, lo, hi int) float64 {
	end := start + task.DurationMinutes
	avg := in.Energy.AverageOver(start, end)

	var energyScore float64
	switch task.Energy {
	case domain.EnergyHigh:
		energyScore = avg
	case domain.EnergyMedium:
		energyScore = 1 - absFloat(avg-0.55)
	default:
		energyScore = 1 - avg
	}

	score := energyWeight * energyScore

	if deadlineMin, ok := task.DeadlineMinutes(in.TargetDate); ok {
		slackHours := float64(deadlineMin-end) / 60
		if slackHours < 0 {
			slackHours = 0
		}
		urgency := 1 / (1 + slackHours)
		span := hi - lo
		earliness := 1.0
		if span > task.DurationMinutes {
			earliness = 1 - float64(start-lo)/float64(span-task.DurationMinutes)
		}
		score += urgencyWeight * urgency * earliness
	}

	return score - earlierStartEpsilon*float64(start)
}

// freeGaps returns maximal free intervals within [lo, hi) given a sorted
// busy set.
func freeGaps(busy []interval, lo, hi int) []interval {
	var gaps []interval
	current := lo
	for _, b := range busy {
		if b.end <= current {
			continue
		}
		if b.start >= hi {
			break
		}
		if b.start > current {
			gaps = append(gaps, interval{start: current, end: minInt(b.start, hi)})
		}
		if b.end > current {
			current = b.end
		}
	}
	if current < hi {
		gaps = append(gaps, interval{start: current, end: hi})
	}
	return gaps
}

// candidateStarts enumerates starts inside a gap: the leading edge, then
// grid-aligned points, then the latest fitting start.
func candidateStarts(gap interval, duration int) []int {
	latest := gap.end - duration
	if latest < gap.start {
		return nil
	}
	starts := []int{gap.start}
	grid := gap.start + (candidateGridMinutes-gap.start%candidateGridMinutes)%candidateGridMinutes
	for m := grid; m <= latest; m += candidateGridMinutes {
		if m != gap.start {
			starts = append(starts, m)
		}
	}
	if last := starts[len(starts)-1]; last != latest {
		starts = append(starts, latest)
	}
	return starts
}

// insertInterval keeps the busy set sorted by start.
func insertInterval(busy []interval, iv interval) []interval {
	idx := sort.Search(len(busy), func(i int) bool { return busy[i].start >= iv.start })
	busy = append(busy, interval{})
	copy(busy[idx+1:], busy[idx:])
	busy[idx] = iv
	return busy
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
