package suite

import (
	"context"
	"fmt"
	"os"

	"github.com/quarrylab/stagehand/internal/spec"
	"github.com/quarrylab/stagehand/internal/store"
)

// Skip and no-tests reason texts written to per-spec logs and result
// records. Reporting tools grep for these literals.
const (
	reasonNotInstalled = "Skipped not installed"
	reasonExternal     = "Skipped external package"
	reasonNoTests      = "No tests"
)

// RunOptions configures one suite run.
type RunOptions struct {
	// Externals opts in to testing specs installed from external
	// paths. By default external specs are always skipped.
	Externals bool
}

// Run executes the suite's test run: exactly one successful invocation
// is permitted per instance.
//
// For each spec, in order, the loop applies the skip policy, invokes
// the package's test callback within a scoped execution context, and
// appends one result record plus one per-spec log. A per-spec outcome
// (FAILED, ERROR, SKIPPED, NO-TESTS) never aborts the loop and is never
// returned as an error: a suite with every spec FAILED still returns
// nil. Only structural misuse (double run) or stage I/O failures error.
//
// Abandoning a run mid-loop leaves results for already-processed specs
// and nothing for the remainder; partial results are durable.
func (s *TestSuite) Run(ctx context.Context, opts RunOptions) error {
	if err := s.claimRun(); err != nil {
		return err
	}

	if err := s.EnsureStage(); err != nil {
		return fmt.Errorf("failed to ensure test stage: %w", err)
	}

	s.logger.Info("starting test suite run",
		"suite", s.id,
		"specs", len(s.specs),
		"externals", opts.Externals,
	)

	for _, sp := range s.specs {
		status, msg := s.runSpec(ctx, opts, sp)

		if err := s.WriteTestResult(sp, status, msg); err != nil {
			return fmt.Errorf("failed to record result for %s: %w", sp.ID(), err)
		}
		s.recordHistory(ctx, sp, status, msg)

		s.logger.Info("spec test completed",
			"suite", s.id,
			"spec", sp.ID(),
			"status", string(status),
		)
	}

	s.mu.Lock()
	s.completed = true
	s.mu.Unlock()

	s.logger.Info("test suite run completed", "suite", s.id)
	return nil
}

// claimRun marks every spec as dispatched by this instance, failing if
// any spec was already dispatched or a run already completed. The suite
// owns this dispatch set itself rather than writing a back-reference
// onto shared package state, so the check cannot leak across instances.
func (s *TestSuite) claimRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed || len(s.dispatched) > 0 {
		return NewAlreadyRunError(s.id)
	}
	for _, sp := range s.specs {
		s.dispatched[sp.ID()] = struct{}{}
	}
	return nil
}

// runSpec decides the outcome for one spec: either a policy skip, or an
// invocation of the package's test callback inside a scoped context.
// All callback output and reason texts land in the per-spec log.
func (s *TestSuite) runSpec(ctx context.Context, opts RunOptions, sp *spec.Spec) (Status, string) {
	logFile, err := os.Create(s.LogFileForSpec(sp))
	if err != nil {
		return StatusError, fmt.Sprintf("failed to create test log: %v", err)
	}
	defer logFile.Close()

	switch {
	case !sp.Installed && !sp.External():
		fmt.Fprintln(logFile, reasonNotInstalled)
		return StatusSkipped, reasonNotInstalled

	case sp.External() && !opts.Externals:
		fmt.Fprintln(logFile, reasonExternal)
		return StatusSkipped, reasonExternal

	case sp.Tester == nil:
		fmt.Fprintln(logFile, reasonNoTests)
		return StatusNoTests, reasonNoTests
	}

	rc := &spec.RunContext{
		Base:     sp,
		Test:     sp,
		CacheDir: s.resolver.CacheDir(s.id, sp, sp),
		DataDir:  s.resolver.DataDir(s.id, sp, sp),
		LogFile:  s.LogFileForSpec(sp),
		Output:   logFile,
	}

	if err := os.MkdirAll(rc.CacheDir, 0o755); err != nil {
		return StatusError, fmt.Sprintf("failed to create test cache dir: %v", err)
	}
	if err := os.MkdirAll(rc.DataDir, 0o755); err != nil {
		return StatusError, fmt.Sprintf("failed to create test data dir: %v", err)
	}

	err = s.invokeTester(ctx, sp, rc)
	switch {
	case err == nil:
		return StatusPassed, ""
	case spec.IsTestFailure(err):
		fmt.Fprintln(logFile, err.Error())
		return StatusFailed, err.Error()
	default:
		fmt.Fprintln(logFile, err.Error())
		return StatusError, err.Error()
	}
}

// invokeTester runs the callback with the context slot held for the
// duration of the call. The deferred clear runs whether the callback
// returns, fails, or panics, so a stale context never leaks into the
// next spec's execution. Panics become ERROR outcomes.
func (s *TestSuite) invokeTester(ctx context.Context, sp *spec.Spec, rc *spec.RunContext) (err error) {
	s.SetCurrentSpecs(rc.Base, rc.Test)
	defer s.SetCurrentSpecs(nil, nil)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("test callback panicked: %v", r)
		}
	}()

	return sp.Tester.Test(ctx, rc)
}

// recordHistory appends the outcome to the attached history store, if
// any. History is best-effort reporting; a failed insert is logged and
// does not affect the run.
func (s *TestSuite) recordHistory(ctx context.Context, sp *spec.Spec, status Status, msg string) {
	if s.history == nil {
		return
	}

	err := s.history.RecordResult(ctx, store.TestResult{
		SuiteID:  s.id,
		Alias:    s.alias,
		SpecID:   sp.ID(),
		SpecName: sp.Name,
		Status:   string(status),
		Message:  msg,
	})
	if err != nil {
		s.logger.Warn("failed to record result history",
			"suite", s.id,
			"spec", sp.ID(),
			"error", err,
		)
	}
}
