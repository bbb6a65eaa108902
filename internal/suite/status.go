package suite

import "fmt"

// Status is a per-spec test outcome token.
//
// The set is closed and each literal is grep-safe: no token is a
// substring of another in casual text search of a results file.
type Status string

const (
	// StatusPassed records a test callback that returned normally.
	StatusPassed Status = "PASSED"

	// StatusFailed records a callback-reported test failure.
	StatusFailed Status = "FAILED"

	// StatusSkipped records a spec that was not tested (not installed,
	// or external without opt-in).
	StatusSkipped Status = "SKIPPED"

	// StatusNoTests records a spec whose package declares no tests.
	StatusNoTests Status = "NO-TESTS"

	// StatusError records an unexpected error while invoking the
	// callback.
	StatusError Status = "ERROR"
)

// ParseStatus validates a status token read back from a results file.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPassed, StatusFailed, StatusSkipped, StatusNoTests, StatusError:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown test status %q", s)
}
