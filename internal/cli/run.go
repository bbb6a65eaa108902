package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarrylab/stagehand/internal/registry"
	"github.com/quarrylab/stagehand/internal/spec"
	"github.com/quarrylab/stagehand/internal/store"
	"github.com/quarrylab/stagehand/internal/suite"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Alias     string
	Externals bool
	History   bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <manifest.yaml>",
		Short: "Run the stand-alone tests of the specs in a manifest",
		Long: `Run the stand-alone tests of already-concretized specs.

The manifest lists the specs in run order; each installed spec's test
command is executed against its installed artifacts, and one result
record per spec is appended to the suite's results file. External
specs are skipped unless --externals is given.

Exit codes:
  0 - All tested specs passed (or were skipped)
  1 - One or more specs FAILED or ERRORed
  2 - Command error (bad manifest, stage I/O, etc.)

Examples:
  stagehand run ./specs.yaml
  stagehand run ./specs.yaml --alias nightly-smoke
  stagehand run ./specs.yaml --externals --history`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Alias, "alias", "", "human-readable suite name for later discovery")
	cmd.Flags().BoolVar(&opts.Externals, "externals", false, "also test externally installed specs")
	cmd.Flags().BoolVar(&opts.History, "history", false, "record outcomes in the shared history database")

	return cmd
}

func runSuite(opts *RunOptions, manifestPath string, cmd *cobra.Command) error {
	specs, err := spec.LoadManifest(manifestPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	suiteOpts := []suite.Option{
		suite.WithStageRoot(opts.StageRoot),
		suite.WithLogger(opts.Logger()),
	}

	var history *store.Store
	if opts.History {
		if err := os.MkdirAll(opts.StageRoot, 0o755); err != nil {
			return WrapExitError(ExitCommandError, "failed to create stage root", err)
		}
		history, err = store.Open(opts.HistoryDBPath())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer history.Close()
		suiteOpts = append(suiteOpts, suite.WithHistory(history))
	}

	ts, err := suite.New(specs, opts.Alias, suiteOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build test suite", err)
	}

	if err := ts.EnsureStage(); err != nil {
		return WrapExitError(ExitCommandError, "failed to create test stage", err)
	}

	reg := registry.Registry{Root: opts.StageRoot}
	if err := reg.WriteTestSuiteFile(ts); err != nil {
		return WrapExitError(ExitCommandError, "failed to register test suite", err)
	}

	if err := ts.Run(cmd.Context(), suite.RunOptions{Externals: opts.Externals}); err != nil {
		return WrapExitError(ExitCommandError, "test suite run failed", err)
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

// outputSummaryJSON renders a summary as a JSON response, with exit
// code 1 when any spec failed or errored.
func outputSummaryJSON(cmd *cobra.Command, summary SuiteSummary) error {
	response := CLIResponse{Status: "ok", Data: summary}
	if summary.Failed > 0 || summary.Errors > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d spec(s) failed", summary.Failed+summary.Errors),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if summary.Failed > 0 || summary.Errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d spec(s) failed", summary.Failed+summary.Errors))
	}
	return nil
}

// outputSummaryText renders a summary as text, with exit code 1 when
// any spec failed or errored.
func outputSummaryText(cmd *cobra.Command, summary SuiteSummary) error {
	renderSummaryText(cmd.OutOrStdout(), summary)

	if summary.Failed > 0 || summary.Errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d spec(s) failed", summary.Failed+summary.Errors))
	}
	return nil
}
