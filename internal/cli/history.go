package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quarrylab/stagehand/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Suite string
	Limit int
}

// HistoryEntry is one rendered history row.
type HistoryEntry struct {
	Suite      string `json:"suite"`
	Alias      string `json:"alias,omitempty"`
	Spec       string `json:"spec"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded results across suite runs",
		Long: `Show result history accumulated by runs that used --history.

History is a reporting sidecar over the shared SQLite database under
the stage root; suite discovery itself always uses the stage registry.

Examples:
  stagehand history
  stagehand history --suite nightly-smoke
  stagehand history --limit 20 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Suite, "suite", "", "restrict to one suite id")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "maximum rows to show")

	return cmd
}

func showHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	dbPath := opts.HistoryDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("no history database at %s (run with --history first)", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	var rows []store.TestResult
	if opts.Suite != "" {
		rows, err = st.ResultsForSuite(cmd.Context(), opts.Suite)
	} else {
		rows, err = st.RecentResults(cmd.Context(), opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query history", err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, HistoryEntry{
			Suite:      r.SuiteID,
			Alias:      r.Alias,
			Spec:       r.SpecID,
			Status:     r.Status,
			Message:    r.Message,
			RecordedAt: r.RecordedAt.Format(time.RFC3339),
		})
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: entries})
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-8s %s  %s\n", e.RecordedAt, e.Status, e.Suite, e.Spec)
	}
	return nil
}
