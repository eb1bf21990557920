package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

func flatEnergy(level float64) domain.EnergyPattern {
	var pattern domain.EnergyPattern
	for i := range pattern {
		pattern[i] = level
	}
	return pattern
}

func solveInput(tasks []domain.Task, events []domain.FixedEvent) SolverInput {
	return SolverInput{
		Tasks:           tasks,
		FixedEvents:     events,
		Energy:          flatEnergy(0.5),
		DayStartMinutes: 480,
		DayEndMinutes:   1380,
		TargetDate:      time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
	}
}

func placementFor(t *testing.T, out SolverOutput, taskID string) Placement {
	t.Helper()
	for _, p := range out.Placements {
		if p.TaskID == taskID {
			return p
		}
	}
	t.Fatalf("task %s not placed: %+v", taskID, out)
	return Placement{}
}

func TestSolverPlacesAroundFixedEvents(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	tasks := []domain.Task{
		{ID: "a", Title: "Deep work", DurationMinutes: 120, Priority: domain.PriorityHigh, Energy: domain.EnergyLow},
	}
	events := []domain.FixedEvent{
		{ID: "e1", Title: "Workshop", StartMinutes: 480, EndMinutes: 1260},
	}

	out, err := solver.Solve(context.Background(), solveInput(tasks, events))
	require.NoError(t, err)
	require.Empty(t, out.Unplaced)

	// Only the 21:00-23:00 tail is free.
	p := placementFor(t, out, "a")
	assert.GreaterOrEqual(t, p.StartMinutes, 1260)
	assert.LessOrEqual(t, p.EndMinutes, 1380)
}

func TestSolverHonorsEarliestStartAndDeadline(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	deadline := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	earliest := 600
	tasks := []domain.Task{
		{
			ID: "a", Title: "Prep", DurationMinutes: 60,
			Priority: domain.PriorityHigh, Energy: domain.EnergyMedium,
			Deadline: &deadline, EarliestStartMinutes: &earliest,
		},
	}

	out, err := solver.Solve(context.Background(), solveInput(tasks, nil))
	require.NoError(t, err)
	require.Empty(t, out.Unplaced)

	p := placementFor(t, out, "a")
	assert.GreaterOrEqual(t, p.StartMinutes, 600)
	assert.LessOrEqual(t, p.EndMinutes, 720)
}

func TestSolverDependenciesOrderPlacements(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	tasks := []domain.Task{
		{ID: "b", Title: "Review", DurationMinutes: 60, Priority: domain.PriorityHigh, Energy: domain.EnergyMedium, DependsOn: []string{"a"}},
		{ID: "a", Title: "Draft", DurationMinutes: 60, Priority: domain.PriorityLow, Energy: domain.EnergyMedium},
	}

	out, err := solver.Solve(context.Background(), solveInput(tasks, nil))
	require.NoError(t, err)
	require.Empty(t, out.Unplaced)

	a := placementFor(t, out, "a")
	b := placementFor(t, out, "b")
	assert.GreaterOrEqual(t, b.StartMinutes, a.EndMinutes)
}

func TestSolverCompletedDependencyIsSatisfied(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	tasks := []domain.Task{
		{ID: "a", Title: "Draft", DurationMinutes: 60, Priority: domain.PriorityHigh, Energy: domain.EnergyMedium, Completed: true},
		{ID: "b", Title: "Review", DurationMinutes: 60, Priority: domain.PriorityHigh, Energy: domain.EnergyMedium, DependsOn: []string{"a"}},
	}

	out, err := solver.Solve(context.Background(), solveInput(tasks, nil))
	require.NoError(t, err)
	require.Empty(t, out.Unplaced)
	require.Len(t, out.Placements, 1)
	assert.Equal(t, "b", out.Placements[0].TaskID)
}

func TestSolverCircularDependency(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	tasks := []domain.Task{
		{ID: "a", Title: "A", DurationMinutes: 30, Priority: domain.PriorityHigh, Energy: domain.EnergyMedium, DependsOn: []string{"b"}},
		{ID: "b", Title: "B", DurationMinutes: 30, Priority: domain.PriorityHigh, Energy: domain.EnergyMedium, DependsOn: []string{"a"}},
	}

	out, err := solver.Solve(context.Background(), solveInput(tasks, nil))
	require.NoError(t, err)
	assert.Empty(t, out.Placements)
	require.Len(t, out.Unplaced, 2)
	for _, u := range out.Unplaced {
		assert.Equal(t, "circular dependency", u.Reason)
	}
}

func TestSolverReportsInfeasibleTask(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	tasks := []domain.Task{
		{ID: "big", Title: "Marathon", DurationMinutes: 1000, Priority: domain.PriorityHigh, Energy: domain.EnergyMedium},
	}

	out, err := solver.Solve(context.Background(), solveInput(tasks, nil))
	require.NoError(t, err)
	assert.Empty(t, out.Placements)
	require.Len(t, out.Unplaced, 1)
	assert.Equal(t, "big", out.Unplaced[0].TaskID)
	assert.Contains(t, out.Unplaced[0].Reason, "exceeds available window")
}

func TestSolverPrefersHighEnergyHoursForHighEnergyTasks(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	input := solveInput([]domain.Task{
		{ID: "focus", Title: "Focus work", DurationMinutes: 60, Priority: domain.PriorityHigh, Energy: domain.EnergyHigh},
	}, nil)

	// Energy peaks between 10:00 and 12:00 only.
	input.Energy = flatEnergy(0.3)
	for hour := 10; hour < 12; hour++ {
		input.Energy[hour] = 1.0
	}

	out, err := solver.Solve(context.Background(), input)
	require.NoError(t, err)
	p := placementFor(t, out, "focus")
	assert.GreaterOrEqual(t, p.StartMinutes, 600)
	assert.LessOrEqual(t, p.EndMinutes, 720)
}

func TestSolverDeterministic(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	tasks := []domain.Task{
		{ID: "c", Title: "C", DurationMinutes: 90, Priority: domain.PriorityMedium, Energy: domain.EnergyLow},
		{ID: "a", Title: "A", DurationMinutes: 60, Priority: domain.PriorityHigh, Energy: domain.EnergyHigh},
		{ID: "b", Title: "B", DurationMinutes: 60, Priority: domain.PriorityHigh, Energy: domain.EnergyMedium},
	}
	events := []domain.FixedEvent{
		{ID: "e1", Title: "Lunch call", StartMinutes: 720, EndMinutes: 780},
	}

	first, err := solver.Solve(context.Background(), solveInput(tasks, events))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := solver.Solve(context.Background(), solveInput(tasks, events))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSolverRejectsOverlappingFixedEvents(t *testing.T) {
	solver := NewSolver(DefaultSolverConfig(), nil)
	events := []domain.FixedEvent{
		{ID: "e1", Title: "One", StartMinutes: 600, EndMinutes: 700},
		{ID: "e2", Title: "Two", StartMinutes: 650, EndMinutes: 750},
	}

	_, err := solver.Solve(context.Background(), solveInput(nil, events))
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}
