package suite

import (
	"errors"
	"fmt"
)

// SuiteError represents a structural misuse of the test suite engine.
//
// Structural errors abort loudly and immediately:
//   - Spec context: cache/data path requested with no active context
//   - Already run: a suite instance's run loop invoked twice
//   - Name required: empty name passed to registry lookup
//   - Too many matches: alias collision across persisted suites
//
// Per-spec test outcomes (FAILED, ERROR, SKIPPED, NO-TESTS) are normal
// recorded data and are never surfaced as SuiteErrors.
type SuiteError struct {
	// Code identifies the error category.
	Code SuiteErrorCode

	// Message is a human-readable description.
	Message string

	// Suite identifies the affected suite, when known.
	Suite string
}

// SuiteErrorCode categorizes suite errors.
type SuiteErrorCode string

const (
	// ErrCodeSpecContext indicates a cache/data path was requested
	// while no per-spec test context was active.
	ErrCodeSpecContext SuiteErrorCode = "SPEC_CONTEXT"

	// ErrCodeAlreadyRun indicates a suite instance was run twice.
	ErrCodeAlreadyRun SuiteErrorCode = "ALREADY_RUN"

	// ErrCodeNameRequired indicates an empty name in a registry lookup.
	ErrCodeNameRequired SuiteErrorCode = "NAME_REQUIRED"

	// ErrCodeTooManyMatches indicates an alias resolved to more than
	// one persisted suite.
	ErrCodeTooManyMatches SuiteErrorCode = "TOO_MANY_MATCHES"
)

// Error implements the error interface.
func (e *SuiteError) Error() string {
	if e.Suite != "" {
		return fmt.Sprintf("%s: %s (suite=%s)", e.Code, e.Message, e.Suite)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSpecContextError returns true if the error is a spec context error.
// Uses errors.As to handle wrapped errors.
func IsSpecContextError(err error) bool {
	var se *SuiteError
	if errors.As(err, &se) {
		return se.Code == ErrCodeSpecContext
	}
	return false
}

// IsAlreadyRunError returns true if the error is an already-run error.
// Uses errors.As to handle wrapped errors.
func IsAlreadyRunError(err error) bool {
	var se *SuiteError
	if errors.As(err, &se) {
		return se.Code == ErrCodeAlreadyRun
	}
	return false
}

// IsNameRequiredError returns true if the error is a name-required error.
// Uses errors.As to handle wrapped errors.
func IsNameRequiredError(err error) bool {
	var se *SuiteError
	if errors.As(err, &se) {
		return se.Code == ErrCodeNameRequired
	}
	return false
}

// IsTooManyMatchesError returns true if the error is a too-many-matches
// error. Uses errors.As to handle wrapped errors.
func IsTooManyMatchesError(err error) bool {
	var se *SuiteError
	if errors.As(err, &se) {
		return se.Code == ErrCodeTooManyMatches
	}
	return false
}

// NewSpecContextError creates a SuiteError for a missing test context.
func NewSpecContextError(suiteID string) *SuiteError {
	return &SuiteError{
		Code:    ErrCodeSpecContext,
		Message: "no currently running spec test; both base and test spec must be set",
		Suite:   suiteID,
	}
}

// NewAlreadyRunError creates a SuiteError for a double-run attempt.
func NewAlreadyRunError(suiteID string) *SuiteError {
	return &SuiteError{
		Code:    ErrCodeAlreadyRun,
		Message: "test suite has already been run",
		Suite:   suiteID,
	}
}

// NewNameRequiredError creates a SuiteError for an empty lookup name.
func NewNameRequiredError() *SuiteError {
	return &SuiteError{
		Code:    ErrCodeNameRequired,
		Message: "test suite name is required",
	}
}

// NewTooManyMatchesError creates a SuiteError for an alias collision.
func NewTooManyMatchesError(name string, count int) *SuiteError {
	return &SuiteError{
		Code:    ErrCodeTooManyMatches,
		Message: fmt.Sprintf("too many suites named %q (%d found); re-run with a distinct alias", name, count),
	}
}
