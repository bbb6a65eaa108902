package spec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Tester is the capability a package variant implements to run its own
// stand-alone tests against installed artifacts.
//
// A Tester signals success by returning nil, a test failure by
// returning (or wrapping) a *TestFailure, and an unexpected problem by
// returning any other error. Output written to rc.Output is captured
// into the per-spec log by the run loop.
type Tester interface {
	Test(ctx context.Context, rc *RunContext) error
}

// TesterFunc adapts a plain function to the Tester interface.
type TesterFunc func(ctx context.Context, rc *RunContext) error

// Test implements Tester.
func (f TesterFunc) Test(ctx context.Context, rc *RunContext) error {
	return f(ctx, rc)
}

// TestFailure is the distinguishable signal for a test that ran and
// failed, as opposed to a test that could not be run at all.
type TestFailure struct {
	// Spec identifies the failing spec.
	Spec string

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *TestFailure) Error() string {
	if e.Spec != "" {
		return fmt.Sprintf("%s: %s", e.Spec, e.Message)
	}
	return e.Message
}

// Failf builds a *TestFailure with a formatted message.
func Failf(spec, format string, args ...any) *TestFailure {
	return &TestFailure{Spec: spec, Message: fmt.Sprintf(format, args...)}
}

// IsTestFailure reports whether err is (or wraps) a *TestFailure.
// Uses errors.As to handle wrapped errors.
func IsTestFailure(err error) bool {
	var tf *TestFailure
	return errors.As(err, &tf)
}

// CommandTester runs a package's self-test as a shell command.
//
// The command inherits the process environment plus the run context's
// cache and data directories:
//
//	STAGEHAND_TEST_CACHE_DIR  — writable cache scoped to (base, test)
//	STAGEHAND_TEST_DATA_DIR   — test data scoped to (base, test)
//
// Combined stdout/stderr goes to rc.Output. A non-zero exit is a test
// failure; any other execution problem is an unexpected error.
type CommandTester struct {
	// Command is the shell command line to execute.
	Command string
}

// Test implements Tester by executing the configured command.
func (t *CommandTester) Test(ctx context.Context, rc *RunContext) error {
	if t.Command == "" {
		return fmt.Errorf("command tester: empty command")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", t.Command)
	cmd.Env = append(os.Environ(),
		"STAGEHAND_TEST_CACHE_DIR="+rc.CacheDir,
		"STAGEHAND_TEST_DATA_DIR="+rc.DataDir,
	)
	cmd.Stdout = rc.Output
	cmd.Stderr = rc.Output

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Failf(rc.Test.ID(), "test command exited with code %d", exitErr.ExitCode())
	}
	return fmt.Errorf("failed to run test command: %w", err)
}
