package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
)

// SchedulePipeline runs the full generation flow: chronotype classification,
// sleep window derivation, energy curve, task placement, block enrichment,
// conflict resolution, gap filling, and metrics.
//
// The clock and ID source are injectable so two runs over the same request
// produce identical schedules.
type SchedulePipeline struct {
	classifier *ChronotypeClassifier
	sleep      *SleepCalculator
	energy     *EnergyCurveGenerator
	solver     *Solver
	enricher   *BlockEnricher
	resolver   *ConflictResolver
	gaps       *GapFiller
	metrics    *MetricsCalculator
	logger     *slog.Logger
	now        func() time.Time
	newID      func() uuid.UUID
}

// PipelineOption customizes a pipeline.
type PipelineOption func(*SchedulePipeline)

// WithClock overrides the wall clock used for GeneratedAt stamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *SchedulePipeline) { p.now = now }
}

// WithIDSource overrides the schedule ID generator.
func WithIDSource(newID func() uuid.UUID) PipelineOption {
	return func(p *SchedulePipeline) { p.newID = newID }
}

// NewSchedulePipeline assembles the pipeline with its stage services.
func NewSchedulePipeline(solverConfig SolverConfig, logger *slog.Logger, opts ...PipelineOption) *SchedulePipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &SchedulePipeline{
		classifier: NewChronotypeClassifier(),
		sleep:      NewSleepCalculator(logger),
		energy:     NewEnergyCurveGenerator(),
		solver:     NewSolver(solverConfig, logger),
		enricher:   NewBlockEnricher(),
		resolver:   NewConflictResolver(logger),
		gaps:       NewGapFiller(),
		metrics:    NewMetricsCalculator(),
		logger:     logger,
		now:        time.Now,
		newID:      uuid.New,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate builds the full-day schedule for the request. extraWarnings are
// carried into the result ahead of pipeline warnings (preference parse
// warnings belong there).
func (p *SchedulePipeline) Generate(
	ctx context.Context,
	req domain.ScheduleRequest,
	extraWarnings []string,
) (*domain.GeneratedSchedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	warnings := append([]string(nil), extraWarnings...)

	chronotype, prime, err := p.classifier.Classify(req.Profile.MEQScore)
	if err != nil {
		return nil, err
	}

	sleepResult := p.sleep.Calculate(SleepInput{
		Age:               req.Profile.Age,
		Chronotype:        chronotype,
		Need:              req.Profile.EffectiveSleepNeed(req.Preferences),
		TargetWakeMinutes: req.Preferences.PreferredWakeMinutes,
		WorkStartMinutes:  req.Preferences.Work.StartMinutes,
		CommuteMinutes:    req.Preferences.Work.CommuteMinutes,
	})
	warnings = append(warnings, sleepResult.Warnings...)
	sleep := sleepResult.Metrics

	energy := p.energy.Generate(chronotype, prime, sleep)

	dayEnd := domain.MinutesPerDay
	if sleep.BedtimeTonight() {
		dayEnd = sleep.BedtimeMinutes
	}
	solved, err := p.solver.Solve(ctx, SolverInput{
		Tasks:           req.Tasks,
		FixedEvents:     req.FixedEvents,
		Energy:          energy,
		DayStartMinutes: sleep.WakeMinutes,
		DayEndMinutes:   dayEnd,
		TargetDate:      req.TargetDate,
	})
	if err != nil {
		return nil, err
	}
	if solved.TimedOut {
		warnings = append(warnings, "task placement stopped at the time limit; schedule is best effort")
	}
	for _, u := range solved.Unplaced {
		warnings = append(warnings, fmt.Sprintf("task %s not scheduled: %s", u.TaskID, u.Reason))
	}

	// Cancellation is honored between stages only; a partial schedule is
	// never returned.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := p.enricher.Enrich(EnrichInput{
		Tasks:       req.Tasks,
		Placements:  solved.Placements,
		FixedEvents: req.FixedEvents,
		Sleep:       sleep,
		Preferences: req.Preferences,
	})

	resolved, dropped := p.resolver.Resolve(candidates)
	for _, d := range dropped {
		warnings = append(warnings, fmt.Sprintf(
			"%s %q displaced by %s %q", d.Block.Type, d.Block.Name, d.By.Type, d.By.Name))
	}

	blocks := p.gaps.Fill(resolved)

	schedule := &domain.GeneratedSchedule{
		ScheduleID:  p.newID(),
		UserID:      req.UserID,
		TargetDate:  req.TargetDate,
		Blocks:      blocks,
		Warnings:    warnings,
		GeneratedAt: p.now().UTC(),
	}
	if err := schedule.CheckCoverage(); err != nil {
		return nil, err
	}

	taskCount := len(req.IncompleteTasks())
	schedule.Metrics = p.metrics.Calculate(blocks, taskCount, len(solved.Placements))

	p.logger.Info("schedule generated",
		"schedule_id", schedule.ScheduleID,
		"user_id", schedule.UserID,
		"chronotype", chronotype,
		"blocks", len(blocks),
		"warnings", len(warnings),
	)
	return schedule, nil
}
