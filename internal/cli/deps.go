package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"hygieat/internal/vendor"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// OpenFunc builds the registration service from the environment. The returned
// close function releases whatever backends it opened.
type OpenFunc func(ctx context.Context) (*vendor.Service, func(context.Context) error, error)

// Dependencies wires runtime services.
type Dependencies struct {
	Open    OpenFunc
	Version string
}

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitRejected = 3
)

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

// Execute runs the CLI with injected dependencies and returns the exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return exitUsage
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return exitFailure
}
