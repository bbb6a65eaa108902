// Package cli implements the stagehand command line interface.
//
// The CLI is a thin shell over the suite, registry, and store packages:
// it parses arguments, builds suites from manifests, and renders results
// in text or JSON. All orchestration semantics live in internal/suite.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarrylab/stagehand/internal/suite"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	StageRoot string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the stagehand CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stagehand",
		Short: "Stagehand - test orchestration for installed packages",
		Long:  "Runs the stand-alone smoke tests of already-installed packages,\nrecords outcomes durably per suite, and rediscovers suites by name.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.StageRoot, "stage-root", suite.DefaultStageRoot(), "directory holding all suite stages")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewResultsCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// Logger builds the slog logger for a command invocation: stderr text
// at Info when verbose, discard otherwise.
func (o *RootOptions) Logger() *slog.Logger {
	if o.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// HistoryDBPath returns the path of the shared result history database
// under the configured stage root.
func (o *RootOptions) HistoryDBPath() string {
	return filepath.Join(o.StageRoot, "history.db")
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
