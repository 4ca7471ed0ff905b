package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quotedraft/internal/browser"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent manual saves across sessions",
		Long: `List manual saves across all sessions, newest first, capped at the
configured history limit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd)
		},
	}
	return cmd
}

func runHistory(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	drafts, _, err := openDrafts(ctx, opts)
	if err != nil {
		return err
	}
	defer drafts.Close()

	records := drafts.History(ctx)
	now := time.Now()
	entries := make([]browser.Entry, len(records))
	for i, rec := range records {
		entries[i] = browser.Summarize(rec, now)
	}

	if formatter.JSON() {
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No manual saves found.")
		return nil
	}
	return writeEntries(cmd.OutOrStdout(), entries)
}
