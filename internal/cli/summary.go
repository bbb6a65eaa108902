package cli

import (
	"fmt"
	"io"

	"github.com/quarrylab/stagehand/internal/suite"
)

// SpecResult is one rendered result record.
type SpecResult struct {
	Spec    string `json:"spec"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SuiteSummary is the rendered view of one suite's results file.
type SuiteSummary struct {
	Suite   string       `json:"suite"`
	Alias   string       `json:"alias,omitempty"`
	Stage   string       `json:"stage"`
	Results []SpecResult `json:"results"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	NoTests int          `json:"no_tests"`
	Errors  int          `json:"errors"`
	Total   int          `json:"total"`
}

// buildSummary tallies raw result records into a summary.
func buildSummary(ts *suite.TestSuite, results []suite.Result) SuiteSummary {
	summary := SuiteSummary{
		Suite:   ts.ID(),
		Alias:   ts.Alias(),
		Stage:   ts.Stage(),
		Results: make([]SpecResult, 0, len(results)),
		Total:   len(results),
	}

	for _, r := range results {
		summary.Results = append(summary.Results, SpecResult{
			Spec:    r.SpecID,
			Status:  string(r.Status),
			Message: r.Message,
		})

		switch r.Status {
		case suite.StatusPassed:
			summary.Passed++
		case suite.StatusFailed:
			summary.Failed++
		case suite.StatusSkipped:
			summary.Skipped++
		case suite.StatusNoTests:
			summary.NoTests++
		case suite.StatusError:
			summary.Errors++
		}
	}
	return summary
}

// renderSummaryText writes the human-readable form of a summary.
func renderSummaryText(w io.Writer, s SuiteSummary) {
	if s.Alias != "" {
		fmt.Fprintf(w, "Suite: %s (alias %s)\n", s.Suite, s.Alias)
	} else {
		fmt.Fprintf(w, "Suite: %s\n", s.Suite)
	}
	fmt.Fprintf(w, "Stage: %s\n", s.Stage)
	fmt.Fprintln(w)

	for _, r := range s.Results {
		if r.Message != "" {
			fmt.Fprintf(w, "  %-8s %s  %s\n", r.Status, r.Spec, r.Message)
		} else {
			fmt.Fprintf(w, "  %-8s %s\n", r.Status, r.Spec)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d skipped, %d no-tests, %d errors, %d total\n",
		s.Passed, s.Failed, s.Skipped, s.NoTests, s.Errors, s.Total)
}
