package evaluator

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"syscall"

	"evalsweep/internal/sweep"
)

// ProcessLauncher runs the evaluator as an external process.
//
// It implements sweep.Launcher. The evaluator inherits the host environment
// (plus ExtraEnv) and writes directly to the configured stdout/stderr, so
// whatever the evaluator prints reaches the operator unfiltered. The
// launcher itself adds nothing to that stream.
type ProcessLauncher struct {
	// Program is the command vector to run, e.g. ["python", "eval_comde.py"].
	// The rendered Invocation arguments are appended to it.
	Program []string

	// WorkingDir is the directory the evaluator runs in. Empty means the
	// current process directory.
	WorkingDir string

	// Invocation carries the fixed per-launch parameters.
	Invocation Invocation

	// ExtraEnv is appended to the inherited environment in sorted key order.
	ExtraEnv map[string]string

	// Stdout and Stderr receive the evaluator's output. Nil defaults to the
	// parent process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Launch starts one evaluator process for the given step and waits for it
// to terminate.
//
// A non-zero exit code is returned in the Outcome, not as an error; only a
// process that cannot be started (or a cancelled context) produces an
// error. On cancellation the whole process group is killed so the evaluator
// cannot outlive the sweep.
func (l *ProcessLauncher) Launch(ctx context.Context, step int) (*sweep.Outcome, error) {
	if l == nil || len(l.Program) == 0 {
		return nil, fmt.Errorf("evaluator program is empty")
	}

	args := append(append([]string{}, l.Program[1:]...), l.Invocation.Args(step)...)
	cmd := exec.CommandContext(ctx, l.Program[0], args...)
	cmd.Dir = l.WorkingDir
	cmd.Env = mergedEnv(l.ExtraEnv)

	cmd.Stdout = l.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = l.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	// Own process group so cancellation kills the evaluator and anything it
	// forked, not just the immediate child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting evaluator (step %d): %w", step, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return nil, fmt.Errorf("launch cancelled (step %d): %w", step, ctx.Err())
	case err = <-done:
	}

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("waiting for evaluator (step %d): %w", step, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &sweep.Outcome{ExitCode: exitCode}, nil
}

// mergedEnv builds the child environment: the inherited environment plus
// the extra variables in sorted key order, so repeated launches see an
// identical environment layout.
func mergedEnv(extra map[string]string) []string {
	env := os.Environ()
	if len(extra) == 0 {
		return env
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
