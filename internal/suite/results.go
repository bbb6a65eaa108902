package suite

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/quarrylab/stagehand/internal/spec"
)

// Result is one record read back from a suite's results file.
type Result struct {
	// Status is the recorded outcome token.
	Status Status

	// SpecID is the spec's stable identity (name-version-hash).
	SpecID string

	// Message is the optional reason text, empty for plain passes.
	Message string
}

// WriteTestResult appends one record to the suite's results file:
// "<STATUS> <spec-id> <message>". Records are never mutated, only
// appended. Fails with an I/O error if the stage does not yet exist;
// callers must EnsureStage first.
func (s *TestSuite) WriteTestResult(sp *spec.Spec, status Status, msg string) error {
	f, err := os.OpenFile(s.ResultsFile(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s", status, sp.ID())
	if msg != "" {
		line += " " + msg
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("failed to append test result: %w", err)
	}
	return nil
}

// ReadResults scans the suite's results file back into records.
// The format is line-oriented on purpose: each line carries one
// unambiguous status token followed by the spec identity, so plain
// grep works without structured parsing.
func (s *TestSuite) ReadResults() ([]Result, error) {
	f, err := os.Open(s.ResultsFile())
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	var results []Result
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed result line %q", line)
		}
		status, err := ParseStatus(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed result line %q: %w", line, err)
		}

		r := Result{Status: status, SpecID: parts[1]}
		if len(parts) == 3 {
			r.Message = parts[2]
		}
		results = append(results, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan results file: %w", err)
	}
	return results, nil
}
