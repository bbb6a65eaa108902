package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylab/stagehand/internal/registry"
	"github.com/quarrylab/stagehand/internal/suite"
)

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results <name>",
		Short: "Show the recorded results of a test suite",
		Long: `Show the recorded results of a previously run test suite.

The name may be the suite's alias or its fingerprint id. An ambiguous
alias (two independent suites staged under the same name) is an error;
re-run with a distinct alias to disambiguate.

Examples:
  stagehand results nightly-smoke
  stagehand results 6f0a1c... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showResults(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func showResults(opts *RootOptions, name string, cmd *cobra.Command) error {
	ts, err := lookupSuite(opts.StageRoot, name)
	if err != nil {
		return err
	}

	results, err := ts.ReadResults()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read results", err)
	}

	summary := buildSummary(ts, results)
	if opts.Format == "json" {
		return outputSummaryJSON(cmd, summary)
	}
	return outputSummaryText(cmd, summary)
}

// lookupSuite resolves a suite name through the registry, mapping the
// engine's error taxonomy onto CLI exit codes.
func lookupSuite(stageRoot, name string) (*suite.TestSuite, error) {
	reg := registry.Registry{Root: stageRoot}
	ts, err := reg.GetTestSuite(name)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve test suite", err)
	}
	if ts == nil {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("no test suite named %q", name))
	}
	return ts, nil
}
