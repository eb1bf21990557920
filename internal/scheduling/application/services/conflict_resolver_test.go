package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

func TestResolveSleepBeatsEverything(t *testing.T) {
	resolver := NewConflictResolver(nil)
	candidates := []domain.ScheduleBlock{
		{Type: domain.BlockMeal, Name: "Breakfast", StartMinutes: 430, EndMinutes: 460},
		{Type: domain.BlockSleep, Name: "Sleep", StartMinutes: 0, EndMinutes: 450},
	}

	accepted, dropped := resolver.Resolve(candidates)

	require.Len(t, accepted, 1)
	assert.Equal(t, domain.BlockSleep, accepted[0].Type)
	require.Len(t, dropped, 1)
	assert.Equal(t, "Breakfast", dropped[0].Block.Name)
	assert.Equal(t, domain.BlockSleep, dropped[0].By.Type)
}

func TestResolveTaskDisplacesMeal(t *testing.T) {
	resolver := NewConflictResolver(nil)
	candidates := []domain.ScheduleBlock{
		{Type: domain.BlockMeal, Name: "Lunch", StartMinutes: 750, EndMinutes: 780},
		{Type: domain.BlockTask, Name: "Deploy", StartMinutes: 740, EndMinutes: 800},
	}

	accepted, dropped := resolver.Resolve(candidates)

	require.Len(t, accepted, 1)
	assert.Equal(t, "Deploy", accepted[0].Name)
	require.Len(t, dropped, 1)
	assert.Equal(t, "Lunch", dropped[0].Block.Name)
}

func TestResolveTieKeepsFirstAccepted(t *testing.T) {
	resolver := NewConflictResolver(nil)
	candidates := []domain.ScheduleBlock{
		{Type: domain.BlockMeal, Name: "Dinner", StartMinutes: 1140, EndMinutes: 1170},
		{Type: domain.BlockMeal, Name: "Supper", StartMinutes: 1150, EndMinutes: 1180},
	}

	accepted, dropped := resolver.Resolve(candidates)

	require.Len(t, accepted, 1)
	assert.Equal(t, "Dinner", accepted[0].Name)
	require.Len(t, dropped, 1)
	assert.Equal(t, "Supper", dropped[0].Block.Name)
}

func TestResolveTieFollowsInputOrder(t *testing.T) {
	resolver := NewConflictResolver(nil)
	// The later-starting block comes first in input; on an equal-priority
	// overlap the earlier-in-input block must survive.
	candidates := []domain.ScheduleBlock{
		{Type: domain.BlockMeal, Name: "Supper", StartMinutes: 1150, EndMinutes: 1180},
		{Type: domain.BlockMeal, Name: "Dinner", StartMinutes: 1140, EndMinutes: 1170},
	}

	accepted, dropped := resolver.Resolve(candidates)

	require.Len(t, accepted, 1)
	assert.Equal(t, "Supper", accepted[0].Name)
	require.Len(t, dropped, 1)
	assert.Equal(t, "Dinner", dropped[0].Block.Name)
	assert.Equal(t, "Supper", dropped[0].By.Name)
}

func TestResolveMultiOverlapReplacesAll(t *testing.T) {
	resolver := NewConflictResolver(nil)
	candidates := []domain.ScheduleBlock{
		{Type: domain.BlockRoutine, Name: "Stretching", StartMinutes: 600, EndMinutes: 630},
		{Type: domain.BlockRoutine, Name: "Reading", StartMinutes: 640, EndMinutes: 670},
		{Type: domain.BlockFixedEvent, Name: "Offsite", StartMinutes: 590, EndMinutes: 700},
	}

	accepted, dropped := resolver.Resolve(candidates)

	require.Len(t, accepted, 1)
	assert.Equal(t, "Offsite", accepted[0].Name)
	assert.Len(t, dropped, 2)
}

func TestResolveNonOverlappingKeepsAll(t *testing.T) {
	resolver := NewConflictResolver(nil)
	candidates := []domain.ScheduleBlock{
		{Type: domain.BlockTask, Name: "B", StartMinutes: 700, EndMinutes: 760},
		{Type: domain.BlockMeal, Name: "A", StartMinutes: 600, EndMinutes: 630},
		{Type: domain.BlockSleep, Name: "Sleep", StartMinutes: 0, EndMinutes: 450},
	}

	accepted, dropped := resolver.Resolve(candidates)

	assert.Empty(t, dropped)
	require.Len(t, accepted, 3)
	// Output is sorted by start.
	assert.Equal(t, "Sleep", accepted[0].Name)
	assert.Equal(t, "A", accepted[1].Name)
	assert.Equal(t, "B", accepted[2].Name)
}

func TestResolveIdempotent(t *testing.T) {
	resolver := NewConflictResolver(nil)
	candidates := []domain.ScheduleBlock{
		{Type: domain.BlockMeal, Name: "Lunch", StartMinutes: 750, EndMinutes: 780},
		{Type: domain.BlockTask, Name: "Deploy", StartMinutes: 740, EndMinutes: 800},
		{Type: domain.BlockSleep, Name: "Sleep", StartMinutes: 0, EndMinutes: 450},
	}

	accepted, _ := resolver.Resolve(candidates)
	again, dropped := resolver.Resolve(accepted)
	assert.Empty(t, dropped)
	assert.Equal(t, accepted, again)
}
