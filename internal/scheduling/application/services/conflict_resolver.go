package services

import (
	"log/slog"
	"sort"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// DroppedBlock records a candidate removed during conflict resolution and
// the winning block that displaced it.
type DroppedBlock struct {
	Block domain.ScheduleBlock
	By    domain.ScheduleBlock
}

// ConflictResolver removes overlaps between candidate blocks using block
// type priority. A candidate displaces overlapping accepted blocks only if
// it outranks every one of them; on a tie the accepted block stays.
type ConflictResolver struct {
	logger *slog.Logger
}

// NewConflictResolver creates a resolver.
func NewConflictResolver(logger *slog.Logger) *ConflictResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConflictResolver{logger: logger}
}

// Resolve returns a non-overlapping subset of the candidates in start order
// together with the blocks that lost their slot. Candidates are processed in
// input order, so on an equal-priority overlap the earlier-in-input block
// survives and callers get the same result across runs.
func (r *ConflictResolver) Resolve(candidates []domain.ScheduleBlock) ([]domain.ScheduleBlock, []DroppedBlock) {
	var accepted []domain.ScheduleBlock
	var dropped []DroppedBlock

	for _, candidate := range candidates {
		conflicts := overlapping(accepted, candidate)
		if len(conflicts) == 0 {
			accepted = append(accepted, candidate)
			continue
		}

		wins := true
		for _, idx := range conflicts {
			if candidate.Type.ResolutionPriority() <= accepted[idx].Type.ResolutionPriority() {
				wins = false
				break
			}
		}

		if !wins {
			winner := accepted[conflicts[0]]
			dropped = append(dropped, DroppedBlock{Block: candidate, By: winner})
			r.logger.Debug("block dropped",
				"type", candidate.Type,
				"name", candidate.Name,
				"winner_type", winner.Type,
				"winner_name", winner.Name,
			)
			continue
		}

		// Remove the displaced blocks, highest index first.
		for i := len(conflicts) - 1; i >= 0; i-- {
			idx := conflicts[i]
			dropped = append(dropped, DroppedBlock{Block: accepted[idx], By: candidate})
			accepted = append(accepted[:idx], accepted[idx+1:]...)
		}
		accepted = append(accepted, candidate)
	}

	sortBlocks(accepted)
	sort.SliceStable(dropped, func(i, j int) bool {
		if dropped[i].Block.StartMinutes != dropped[j].Block.StartMinutes {
			return dropped[i].Block.StartMinutes < dropped[j].Block.StartMinutes
		}
		return dropped[i].Block.Name < dropped[j].Block.Name
	})
	return accepted, dropped
}

func overlapping(accepted []domain.ScheduleBlock, candidate domain.ScheduleBlock) []int {
	var idxs []int
	for i, b := range accepted {
		if b.OverlapsWith(candidate) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// sortBlocks orders blocks by start, then end, then name.
func sortBlocks(blocks []domain.ScheduleBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].StartMinutes != blocks[j].StartMinutes {
			return blocks[i].StartMinutes < blocks[j].StartMinutes
		}
		if blocks[i].EndMinutes != blocks[j].EndMinutes {
			return blocks[i].EndMinutes < blocks[j].EndMinutes
		}
		return blocks[i].Name < blocks[j].Name
	})
}
