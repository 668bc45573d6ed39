// Package sweep computes checkpoint-step sweeps and dispatches them in
// bounded-concurrency batches.
package sweep

import "fmt"

// Plan describes a sweep over checkpoint steps as an explicit parameter set.
//
// The step for (iteration, slot) is:
//
//	StartBase + iteration*(Stride*Parallel) + Stride*slot
//
// so batches are contiguous, non-overlapping ranges and every step in the
// sweep is distinct. Plan is immutable once validated; the same Plan can be
// dispatched multiple times.
type Plan struct {
	// StartBase is the first checkpoint step of the sweep. Must be >= 0.
	StartBase int

	// Stride is the increment between consecutive steps. Must be > 0.
	Stride int

	// Iterations is the number of batches. May be 0 (empty sweep).
	Iterations int

	// Parallel is the number of concurrent launches per batch. Must be > 0.
	Parallel int
}

// Validate checks the arithmetic preconditions of the plan.
func (p Plan) Validate() error {
	if p.StartBase < 0 {
		return fmt.Errorf("start base must be >= 0 (got %d)", p.StartBase)
	}
	if p.Stride <= 0 {
		return fmt.Errorf("stride must be > 0 (got %d)", p.Stride)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0 (got %d)", p.Iterations)
	}
	if p.Parallel <= 0 {
		return fmt.Errorf("parallel must be > 0 (got %d)", p.Parallel)
	}
	return nil
}

// Step returns the checkpoint step for the given batch iteration and slot.
//
// The caller is responsible for bounds; out-of-range indices still produce
// the arithmetic result so the function stays total and pure.
func (p Plan) Step(iteration, slot int) int {
	return p.StartBase + iteration*(p.Stride*p.Parallel) + p.Stride*slot
}

// Batch returns the steps of one batch in slot order.
func (p Plan) Batch(iteration int) []int {
	steps := make([]int, p.Parallel)
	for slot := 0; slot < p.Parallel; slot++ {
		steps[slot] = p.Step(iteration, slot)
	}
	return steps
}

// Steps returns every step of the sweep in launch order
// (batch-major, slot-minor).
func (p Plan) Steps() []int {
	steps := make([]int, 0, p.Iterations*p.Parallel)
	for it := 0; it < p.Iterations; it++ {
		steps = append(steps, p.Batch(it)...)
	}
	return steps
}

// TotalLaunches returns the number of launches the plan will issue.
func (p Plan) TotalLaunches() int {
	return p.Iterations * p.Parallel
}
