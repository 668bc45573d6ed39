package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ExitSuccess           = 0
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// unsetOverride marks an integer override flag the operator did not pass.
const unsetOverride = -1

// CLIInvocation is the fully canonicalized description of a run.
//
// Override fields left at unsetOverride keep the config file value. There
// are deliberately no env-derived defaults: the config file plus the flag
// line is the whole invocation.
type CLIInvocation struct {
	ConfigPath string
	DryRun     bool

	StartBase  int
	Stride     int
	Iterations int
	Parallel   int
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses CLI flags into a canonical CLIInvocation.
func ParseInvocation(args []string) (CLIInvocation, error) {
	fs := flag.NewFlagSet("evalsweep", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	inv := CLIInvocation{
		StartBase:  unsetOverride,
		Stride:     unsetOverride,
		Iterations: unsetOverride,
		Parallel:   unsetOverride,
	}

	fs.StringVar(&inv.ConfigPath, "config", "", "Sweep config file. Required.")
	fs.BoolVar(&inv.DryRun, "dry-run", false, "Print the planned steps per batch without launching.")
	fs.IntVar(&inv.StartBase, "start-base", unsetOverride, "Override sweep.start_base.")
	fs.IntVar(&inv.Stride, "stride", unsetOverride, "Override sweep.stride.")
	fs.IntVar(&inv.Iterations, "iterations", unsetOverride, "Override sweep.iterations.")
	fs.IntVar(&inv.Parallel, "parallel", unsetOverride, "Override sweep.parallel.")

	if err := fs.Parse(args); err != nil {
		return CLIInvocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return CLIInvocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}

	if strings.TrimSpace(inv.ConfigPath) == "" {
		return CLIInvocation{}, invalidInvocationf("--config is required")
	}

	return inv, nil
}

// ExitCodeFor extracts a semantic exit code from an error.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	return ExitInternalError
}
