// Package report persists per-run sweep manifests.
//
// The sweep itself ignores evaluation failures; the report is how an
// operator finds them afterwards. It is strictly observational and is
// written after the final barrier, so a missing or corrupt report never
// says anything about whether the sweep ran.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"evalsweep/internal/evaluator"
	"evalsweep/internal/sweep"
)

// LaunchRecord is the persisted outcome of one launch.
type LaunchRecord struct {
	Step        int    `json:"step"`
	Iteration   int    `json:"iteration"`
	Slot        int    `json:"slot"`
	Started     bool   `json:"started"`
	ExitCode    int    `json:"exit_code"`
	LaunchError string `json:"launch_error,omitempty"`
}

// PlanRecord echoes the sweep parameters the run was dispatched with.
type PlanRecord struct {
	StartBase  int `json:"start_base"`
	Stride     int `json:"stride"`
	Iterations int `json:"iterations"`
	Parallel   int `json:"parallel"`
}

// Report is the manifest of one sweep run.
type Report struct {
	RunID      string               `json:"run_id"`
	StartTime  time.Time            `json:"start_time"`
	Plan       PlanRecord           `json:"plan"`
	Invocation evaluator.Invocation `json:"invocation"`
	Launches   []LaunchRecord       `json:"launches"`
}

// FromResult builds the manifest for a dispatched sweep.
func FromResult(runID string, start time.Time, inv evaluator.Invocation, res *sweep.SweepResult) (Report, error) {
	if res == nil {
		return Report{}, errors.New("nil sweep result")
	}
	r := Report{
		RunID:     runID,
		StartTime: start.UTC(),
		Plan: PlanRecord{
			StartBase:  res.Plan.StartBase,
			Stride:     res.Plan.Stride,
			Iterations: res.Plan.Iterations,
			Parallel:   res.Plan.Parallel,
		},
		Invocation: inv,
		Launches:   make([]LaunchRecord, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		rec := LaunchRecord{
			Step:      o.Step,
			Iteration: o.Iteration,
			Slot:      o.Slot,
			Started:   o.Started,
			ExitCode:  o.ExitCode,
		}
		if o.Err != nil {
			rec.LaunchError = o.Err.Error()
		}
		r.Launches = append(r.Launches, rec)
	}
	if err := r.Validate(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Validate checks basic invariants of the manifest.
func (r Report) Validate() error {
	if strings.TrimSpace(r.RunID) == "" {
		return errors.New("run id is required")
	}
	if r.StartTime.IsZero() {
		return errors.New("start time is required")
	}
	for i, l := range r.Launches {
		if !l.Started && l.ExitCode != 0 {
			return fmt.Errorf("launches[%d]: exit code set for a launch that never started", i)
		}
	}
	return nil
}

// FailedSteps returns the steps whose evaluations exited non-zero, in
// launch order.
func (r Report) FailedSteps() []int {
	var steps []int
	for _, l := range r.Launches {
		if l.Started && l.ExitCode != 0 {
			steps = append(steps, l.Step)
		}
	}
	return steps
}
