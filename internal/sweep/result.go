package sweep

// Outcome records what happened to a single launch.
//
// A non-zero ExitCode is a normal evaluation failure and is never escalated
// by the dispatcher. Err is only set when the process could not be started
// (or the launch was cancelled); in that case Started is false.
type Outcome struct {
	// Step is the checkpoint step this launch evaluated.
	Step int

	// Iteration and Slot locate the launch within the sweep.
	Iteration int
	Slot      int

	// Started reports whether the evaluator process began executing.
	Started bool

	// ExitCode is the evaluator's exit code. Meaningful only when Started.
	ExitCode int

	// Err is the infrastructure error for launches that never started.
	Err error
}

// SweepResult is the observational summary of a dispatched sweep.
//
// It never feeds back into dispatch decisions: the sweep's control flow is
// defined entirely by the Plan, and a result full of failures is still a
// completed sweep.
type SweepResult struct {
	Plan Plan

	// Outcomes holds one entry per issued launch, in launch order
	// (batch-major, slot-minor). A cancelled sweep holds only the
	// launches issued before cancellation.
	Outcomes []Outcome
}

// FailedCount returns the number of launches that started and exited
// non-zero.
func (r *SweepResult) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Started && o.ExitCode != 0 {
			n++
		}
	}
	return n
}

// NotStartedCount returns the number of launches that never started.
func (r *SweepResult) NotStartedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Started {
			n++
		}
	}
	return n
}
