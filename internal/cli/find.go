package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylab/stagehand/internal/registry"
)

// SuiteInfo is one discovered suite in find output.
type SuiteInfo struct {
	Suite string `json:"suite"`
	Alias string `json:"alias,omitempty"`
	Stage string `json:"stage"`
	Specs int    `json:"specs"`
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "List all persisted test suites",
		Long: `List every test suite persisted under the stage root.

Examples:
  stagehand find
  stagehand find --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return findSuites(rootOpts, cmd)
		},
	}

	return cmd
}

func findSuites(opts *RootOptions, cmd *cobra.Command) error {
	reg := registry.Registry{Root: opts.StageRoot}
	suites, err := reg.FindTestSuites()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to scan stage root", err)
	}

	infos := make([]SuiteInfo, 0, len(suites))
	for _, ts := range suites {
		infos = append(infos, SuiteInfo{
			Suite: ts.ID(),
			Alias: ts.Alias(),
			Stage: ts.Stage(),
			Specs: len(ts.Specs()),
		})
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: infos})
	}

	w := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(w, "No test suites found.")
		return nil
	}
	for _, info := range infos {
		if info.Alias != "" {
			fmt.Fprintf(w, "%s  (alias %s, %d specs)\n", info.Suite, info.Alias, info.Specs)
		} else {
			fmt.Fprintf(w, "%s  (%d specs)\n", info.Suite, info.Specs)
		}
	}
	return nil
}
