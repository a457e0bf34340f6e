// Package exec runs the monitored command and captures its outcome.
package exec

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// ErrStartFailed is returned when the command could not be launched at all
// (e.g. binary not found). A command that launches and exits non-zero is a
// normal result, not an error.
var ErrStartFailed = errors.New("failed to start command")

// ErrEmptyCommand is returned when no command was given to run.
var ErrEmptyCommand = errors.New("no command specified")

// CommandResult contains the captured outcome of a command execution.
// Stdout and Stderr are nil when the command wrote nothing to that stream,
// so downstream fallback selection can distinguish empty from absent.
type CommandResult struct {
	Stdout   *string
	Stderr   *string
	ExitCode int
}

// Succeeded reports whether the command exited with status zero.
func (r *CommandResult) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner executes an external command and captures its output.
type Runner interface {
	// Run executes argv[0] with the remaining arguments and waits for it to
	// exit. Non-zero exit status is reported via the result; the returned
	// error is reserved for launch failures.
	Run(ctx context.Context, argv []string) (*CommandResult, error)
}

// commandRunner implements Runner.
type commandRunner struct{}

// NewRunner creates a new Runner.
//
//nolint:ireturn // constructor returns the interface for substitution in tests
func NewRunner() Runner {
	return &commandRunner{}
}

// Run executes the command, waiting without a timeout for it to exit.
func (*commandRunner) Run(ctx context.Context, argv []string) (*CommandResult, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		Stdout: normalize(stdout.String()),
		Stderr: normalize(stderr.String()),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()

		return result, nil
	}

	if err != nil {
		return nil, errors.Wrapf(ErrStartFailed, "executing %s: %v", argv[0], err)
	}

	return result, nil
}

// normalize converts an empty capture to absent.
func normalize(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
