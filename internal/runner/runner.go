// File: internal/runner/runner.go
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
	"github.com/xkilldash9x/greenlight-cli/internal/stepdef"
)

// WorldFactory provisions a fresh, isolated world (page/context bundle)
// for one scenario. The returned cleanup releases it; cleanup is called
// exactly once, pass or fail. Isolation is a hard requirement: worlds
// must share no mutable state, or parallel scenarios become
// order-dependent.
type WorldFactory[W any] func(ctx context.Context) (W, func(), error)

// DiagnoseFunc captures a failure diagnostic (typically a screenshot)
// keyed to the failing step's literal text. It returns a reference to the
// stored artifact, or "" when capture was not possible. Diagnostics run
// before the failure propagates upward.
type DiagnoseFunc[W any] func(ctx context.Context, world W, scenario, failingStep string) string

// Runner binds scenarios to registered step definitions and executes
// them. Steps within one scenario run strictly sequentially; scenarios
// run in parallel up to Concurrency, each against its own world.
type Runner[W any] struct {
	registry *stepdef.Registry[W]
	factory  WorldFactory[W]
	diagnose DiagnoseFunc[W]
	logger   *zap.Logger

	// Concurrency is the maximum number of scenarios in flight. Values
	// below 1 are treated as 1.
	Concurrency int
}

// New creates a runner. diagnose may be nil when no diagnostic capture is
// wanted (e.g. in unit tests).
func New[W any](registry *stepdef.Registry[W], factory WorldFactory[W], diagnose DiagnoseFunc[W], logger *zap.Logger) *Runner[W] {
	return &Runner[W]{
		registry:    registry,
		factory:     factory,
		diagnose:    diagnose,
		logger:      logger.Named("runner"),
		Concurrency: 1,
	}
}

// Run expands and executes every scenario of the given features and
// returns the aggregated summary. A scenario failure never aborts the
// run; it is recorded and the remaining scenarios proceed.
func (r *Runner[W]) Run(ctx context.Context, features []*gherkin.Feature) *Summary {
	summary := &Summary{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}

	var concrete []gherkin.Scenario
	for _, feature := range features {
		for _, sc := range feature.Scenarios {
			concrete = append(concrete, sc.Expand()...)
		}
	}

	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}

	var mu sync.Mutex
	results := make([]Result, len(concrete))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, sc := range concrete {
		g.Go(func() error {
			res := r.RunScenario(gctx, sc)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			// Scenario failures are results, not run errors. Only a
			// cancelled run context stops the group.
			return gctx.Err()
		})
	}
	// The only possible group error is context cancellation, which is
	// already reflected in the per-scenario results.
	_ = g.Wait()

	summary.Results = results
	summary.Finished = time.Now()
	summary.Duration = summary.Finished.Sub(summary.Started)

	r.logger.Info("Suite run finished.",
		zap.String("run_id", summary.RunID),
		zap.Int("scenarios", len(results)),
		zap.Int("passed", summary.Passed()),
		zap.Int("failed", summary.Failed()),
		zap.Duration("duration", summary.Duration),
	)
	return summary
}

// RunScenario executes one concrete (already expanded) scenario against a
// fresh world. Execution is fail-fast: the first resolution or handler
// failure finalizes the scenario as Failed, marks the failing step, and
// skips every later step — later steps assume browser state left by
// earlier ones, so running them would only produce noise.
func (r *Runner[W]) RunScenario(ctx context.Context, sc gherkin.Scenario) Result {
	log := r.logger.With(zap.String("scenario", sc.Name))
	started := time.Now()

	result := Result{
		Scenario:        sc.Name,
		Source:          sc.Source,
		Status:          Pending,
		Steps:           make([]StepResult, len(sc.Steps)),
		FailedStepIndex: -1,
	}
	for i, step := range sc.Steps {
		result.Steps[i] = StepResult{Keyword: step.Keyword, Text: step.Text}
	}

	finalize := func(status Status) Result {
		result.Status = status
		result.StatusS = status.String()
		result.Duration = time.Since(started)
		for i := range result.Steps {
			result.Steps[i].StatusS = result.Steps[i].Status.String()
		}
		return result
	}

	world, cleanup, err := r.factory(ctx)
	if err != nil {
		log.Error("Failed to provision scenario world.", zap.Error(err))
		result.err = fmt.Errorf("provisioning world for scenario %q: %w", sc.Name, err)
		result.Error = result.err.Error()
		if len(sc.Steps) > 0 {
			result.FailedStepIndex = 0
			result.FailedStepText = sc.Steps[0].Text
			result.Steps[0].Status = StepFailed
			for i := 1; i < len(result.Steps); i++ {
				result.Steps[i].Status = StepSkipped
			}
		}
		return finalize(Failed)
	}
	defer cleanup()

	result.Status = Running
	log.Info("Scenario started.", zap.Int("steps", len(sc.Steps)))

	for i, step := range sc.Steps {
		stepStarted := time.Now()
		err := r.runStep(ctx, world, step)
		result.Steps[i].Duration = time.Since(stepStarted)

		if err == nil {
			result.Steps[i].Status = StepPassed
			log.Debug("Step passed.", zap.String("step", step.Text))
			continue
		}

		// First failure: finalize, capture a diagnostic keyed to the
		// failing step, skip the rest.
		result.Steps[i].Status = StepFailed
		result.Steps[i].Error = err.Error()
		result.FailedStepIndex = i
		result.FailedStepText = step.Text
		result.err = fmt.Errorf("step %d (%s %s): %w", i, step.Keyword, step.Text, err)
		result.Error = result.err.Error()
		for j := i + 1; j < len(sc.Steps); j++ {
			result.Steps[j].Status = StepSkipped
		}

		log.Error("Scenario failed.",
			zap.Int("failed_step_index", i),
			zap.String("failed_step", step.Text),
			zap.Error(err),
		)
		if r.diagnose != nil {
			result.Diagnostic = r.diagnose(ctx, world, sc.Name, step.Text)
		}
		return finalize(Failed)
	}

	log.Info("Scenario passed.", zap.Duration("duration", time.Since(started)))
	return finalize(Passed)
}

// runStep resolves one step line through the registry and invokes its
// handler. Registry errors (no match, ambiguity) and handler errors are
// equally fatal to the scenario; neither is retried.
func (r *Runner[W]) runStep(ctx context.Context, world W, step gherkin.Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	match, err := r.registry.Resolve(step.Category, step.Text)
	if err != nil {
		return err
	}
	return match.Definition.Handler(ctx, world, match.Args)
}
