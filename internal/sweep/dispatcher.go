package sweep

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Launcher starts one evaluator process for a checkpoint step and waits for
// it to terminate.
//
// A non-nil error means the process could not be started (or the context was
// cancelled before/while it ran). An evaluator that runs and exits non-zero
// is NOT an error: its exit code is returned in the Outcome and the caller
// decides what to do with it.
type Launcher interface {
	Launch(ctx context.Context, step int) (*Outcome, error)
}

// Dispatcher drives a sweep: for each batch it issues Plan.Parallel launches
// in slot order, then blocks until every launch in the batch has terminated
// before starting the next batch.
//
// Failure policy: exit codes and launch errors are recorded into the
// SweepResult and deliberately not escalated. A batch with failures still
// proceeds to the next batch. Only context cancellation stops the sweep.
type Dispatcher struct {
	Launcher Launcher

	// Logger receives one line per launch (carrying the step value) and one
	// line per completed batch. Nil means no logging.
	Logger *zap.Logger
}

// Run dispatches the full sweep described by plan.
//
// The returned SweepResult is non-nil whenever dispatch began, including on
// cancellation (it then holds the launches issued so far). Peak concurrency
// is exactly plan.Parallel: the per-batch errgroup wait is the barrier.
func (d *Dispatcher) Run(ctx context.Context, plan Plan) (*SweepResult, error) {
	if d == nil || d.Launcher == nil {
		return nil, fmt.Errorf("nil launcher")
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outcomes := make([]Outcome, 0, plan.TotalLaunches())

	for it := 0; it < plan.Iterations; it++ {
		// Each goroutine owns exactly one slot of the batch slice, so the
		// barrier wait is the only synchronization needed.
		batch := make([]Outcome, plan.Parallel)

		var g errgroup.Group
		for slot := 0; slot < plan.Parallel; slot++ {
			slot := slot
			iteration := it
			step := plan.Step(iteration, slot)

			logger.Info("launching evaluation",
				zap.Int("step", step),
				zap.Int("iteration", iteration),
				zap.Int("slot", slot),
			)

			g.Go(func() error {
				res, err := d.Launcher.Launch(ctx, step)
				if err != nil {
					batch[slot] = Outcome{Step: step, Iteration: iteration, Slot: slot, Err: err}
					return nil
				}
				out := *res
				out.Step = step
				out.Iteration = iteration
				out.Slot = slot
				out.Started = true
				batch[slot] = out
				return nil
			})
		}

		// Barrier: every launch in this batch must terminate before the
		// next batch is issued. Slot funcs never return errors (failures
		// are data, not control flow), so Wait is purely the join.
		_ = g.Wait()
		outcomes = append(outcomes, batch...)

		logger.Info("batch complete",
			zap.Int("iteration", it),
			zap.Int("launched", plan.Parallel),
		)

		if err := ctx.Err(); err != nil {
			return &SweepResult{Plan: plan, Outcomes: outcomes}, fmt.Errorf("sweep cancelled: %w", err)
		}
	}

	return &SweepResult{Plan: plan, Outcomes: outcomes}, nil
}
