package cli

import (
	"context"

	"go.uber.org/zap"
)

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code plus any error.
func Run(ctx context.Context, args []string, logger *zap.Logger) (CLIResult, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return CLIResult{ExitCode: ExitCodeFor(err)}, err
	}
	e := &Executor{Logger: logger}
	return e.Execute(ctx, inv)
}
