package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a test suite's stage directory",
		Long: `Remove a persisted test suite and its stage directory.

The engine never deletes stages on its own; this command is the
explicit user-requested cleanup path. Removal deletes the suite's
results, logs, caches, and registry marker.

Examples:
  stagehand remove nightly-smoke`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeSuite(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func removeSuite(opts *RootOptions, name string, cmd *cobra.Command) error {
	ts, err := lookupSuite(opts.StageRoot, name)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(ts.Stage()); err != nil {
		return WrapExitError(ExitCommandError, "failed to remove stage", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed test suite %s\n", ts.ID())
	return nil
}
