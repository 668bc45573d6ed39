package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"evalsweep/internal/config"
	"evalsweep/internal/evaluator"
	"evalsweep/internal/report"
	"evalsweep/internal/sweep"
)

// Executor maps a canonical CLIInvocation to a dispatched sweep.
//
// NewLauncher is a seam for tests: production wiring builds an
// evaluator.ProcessLauncher from the config, tests substitute a fake so
// exit-code mapping can be proven without spawning processes.
type Executor struct {
	Logger *zap.Logger

	// Stdout receives the dry-run plan listing. Nil defaults to os.Stdout.
	Stdout io.Writer

	// NewLauncher builds the launcher for a loaded config. Nil selects the
	// external-process launcher.
	NewLauncher func(cfg config.Config) sweep.Launcher
}

// CLIResult carries the semantic exit code and, for dispatched runs, the
// sweep result and run ID.
type CLIResult struct {
	ExitCode int
	Sweep    *sweep.SweepResult
	RunID    string
}

// Execute runs one invocation end to end.
//
// Exit-code policy: the sweep succeeds once every batch has completed its
// barrier, regardless of individual evaluation outcomes. There is no
// "sweep failed" exit code; failures are visible in the logs and the run
// report only.
func (e *Executor) Execute(ctx context.Context, inv CLIInvocation) (CLIResult, error) {
	res := CLIResult{ExitCode: ExitInternalError}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stdout := e.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	cfg, err := config.Load(inv.ConfigPath)
	if err != nil {
		res.ExitCode = ExitConfigError
		return res, err
	}

	applyOverrides(&cfg, inv)
	plan := cfg.Plan()
	if err := plan.Validate(); err != nil {
		// The file validated before overrides, so the flags broke it.
		res.ExitCode = ExitInvalidInvocation
		return res, invalidInvocationf("invalid sweep overrides: %v", err)
	}

	if inv.DryRun {
		for it := 0; it < plan.Iterations; it++ {
			fmt.Fprintf(stdout, "iteration %d:", it)
			for _, step := range plan.Batch(it) {
				fmt.Fprintf(stdout, " %d", step)
			}
			fmt.Fprintln(stdout)
		}
		fmt.Fprintf(stdout, "total launches: %d\n", plan.TotalLaunches())
		res.ExitCode = ExitSuccess
		return res, nil
	}

	launcher := e.buildLauncher(cfg)

	// The report store is best-effort: a sweep must never be blocked by
	// bookkeeping.
	store, storeErr := report.NewStore(cfg.ReportDir)
	if storeErr != nil {
		logger.Warn("report store unavailable", zap.Error(storeErr))
	}
	runID := ""
	if store != nil {
		runID = store.NewRunID()
	}
	start := time.Now().UTC()

	logger.Info("starting sweep",
		zap.String("run_id", runID),
		zap.Int("start_base", plan.StartBase),
		zap.Int("stride", plan.Stride),
		zap.Int("iterations", plan.Iterations),
		zap.Int("parallel", plan.Parallel),
	)

	dispatcher := &sweep.Dispatcher{Launcher: launcher, Logger: logger}
	sweepRes, runErr := dispatcher.Run(ctx, plan)
	res.Sweep = sweepRes
	res.RunID = runID

	if store != nil && sweepRes != nil {
		if rep, rerr := report.FromResult(runID, start, cfg.Evaluator.Invocation, sweepRes); rerr != nil {
			logger.Warn("building run report failed", zap.Error(rerr))
		} else if serr := store.Save(rep); serr != nil {
			logger.Warn("writing run report failed", zap.Error(serr))
		}
	}

	if runErr != nil {
		res.ExitCode = ExitInternalError
		return res, runErr
	}

	logger.Info("sweep complete",
		zap.String("run_id", runID),
		zap.Int("launched", len(sweepRes.Outcomes)),
		zap.Int("failed", sweepRes.FailedCount()),
		zap.Int("not_started", sweepRes.NotStartedCount()),
	)
	res.ExitCode = ExitSuccess
	return res, nil
}

func (e *Executor) buildLauncher(cfg config.Config) sweep.Launcher {
	if e.NewLauncher != nil {
		return e.NewLauncher(cfg)
	}
	return &evaluator.ProcessLauncher{
		Program:    cfg.Evaluator.Program,
		WorkingDir: cfg.Evaluator.WorkingDir,
		Invocation: cfg.Evaluator.Invocation,
		ExtraEnv:   cfg.Evaluator.ExtraEnv,
	}
}

func applyOverrides(cfg *config.Config, inv CLIInvocation) {
	if inv.StartBase != unsetOverride {
		cfg.Sweep.StartBase = inv.StartBase
	}
	if inv.Stride != unsetOverride {
		cfg.Sweep.Stride = inv.Stride
	}
	if inv.Iterations != unsetOverride {
		cfg.Sweep.Iterations = inv.Iterations
	}
	if inv.Parallel != unsetOverride {
		cfg.Sweep.Parallel = inv.Parallel
	}
}
