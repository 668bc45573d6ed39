package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"evalsweep/internal/evaluator"
	"evalsweep/internal/sweep"
)

func sampleResult() *sweep.SweepResult {
	plan := sweep.Plan{StartBase: 50000, Stride: 5000, Iterations: 2, Parallel: 3}
	res := &sweep.SweepResult{Plan: plan}
	for it := 0; it < plan.Iterations; it++ {
		for slot := 0; slot < plan.Parallel; slot++ {
			res.Outcomes = append(res.Outcomes, sweep.Outcome{
				Step:      plan.Step(it, slot),
				Iteration: it,
				Slot:      slot,
				Started:   true,
			})
		}
	}
	return res
}

func TestFromResult_MapsOutcomes(t *testing.T) {
	res := sampleResult()
	res.Outcomes[1].ExitCode = 1
	res.Outcomes[4] = sweep.Outcome{
		Step:      res.Outcomes[4].Step,
		Iteration: 1,
		Slot:      1,
		Err:       errors.New("exec: python not found"),
	}

	inv := evaluator.Invocation{Date: "2023-05-01", Env: "metaworld"}
	rep, err := FromResult("run-1", time.Now(), inv, res)
	require.NoError(t, err)

	require.Equal(t, "run-1", rep.RunID)
	require.Equal(t, PlanRecord{StartBase: 50000, Stride: 5000, Iterations: 2, Parallel: 3}, rep.Plan)
	require.Equal(t, inv, rep.Invocation)
	require.Len(t, rep.Launches, 6)

	require.Equal(t, 1, rep.Launches[1].ExitCode)
	require.True(t, rep.Launches[1].Started)

	require.False(t, rep.Launches[4].Started)
	require.Equal(t, "exec: python not found", rep.Launches[4].LaunchError)

	require.Equal(t, []int{55000}, rep.FailedSteps())
}

func TestFromResult_NilResult(t *testing.T) {
	_, err := FromResult("run-1", time.Now(), evaluator.Invocation{}, nil)
	require.Error(t, err)
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	rep, err := FromResult(store.NewRunID(), time.Now(), evaluator.Invocation{Date: "d"}, sampleResult())
	require.NoError(t, err)
	require.NoError(t, store.Save(rep))

	loaded, err := store.Load(rep.RunID)
	require.NoError(t, err)
	require.Equal(t, rep.RunID, loaded.RunID)
	require.Equal(t, rep.Plan, loaded.Plan)
	require.Equal(t, rep.Launches, loaded.Launches)
	require.True(t, rep.StartTime.Equal(loaded.StartTime))
}

func TestStore_ListRunIDsSorted(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	for _, id := range []string{"b-run", "a-run", "c-run"} {
		rep, err := FromResult(id, time.Now(), evaluator.Invocation{}, sampleResult())
		require.NoError(t, err)
		require.NoError(t, store.Save(rep))
	}

	ids, err := store.ListRunIDs()
	require.NoError(t, err)
	require.Equal(t, []string{"a-run", "b-run", "c-run"}, ids)
}

func TestStore_ListRunIDsEmptyBase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ids, err := store.ListRunIDs()
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestStore_LoadRejectsUnknownFields(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	dir := filepath.Join(base, ".evalsweep", "runs", "tampered")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.json"),
		[]byte(`{"run_id":"tampered","start_time":"2026-08-24T00:00:00Z","plan":{},"invocation":{},"launches":[],"bogus":1}`),
		0o644))

	_, err = store.Load("tampered")
	require.Error(t, err)
}

func TestReport_ValidateRejectsImpossibleLaunch(t *testing.T) {
	rep := Report{
		RunID:     "r",
		StartTime: time.Now(),
		Launches:  []LaunchRecord{{Step: 1, ExitCode: 3, Started: false}},
	}
	require.Error(t, rep.Validate())
}

func TestStore_RequiresBaseDir(t *testing.T) {
	_, err := NewStore("  ")
	require.Error(t, err)
}
