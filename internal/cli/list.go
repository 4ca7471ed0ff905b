package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/quotedraft/internal/browser"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	All   bool
	Limit int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved drafts, newest first",
		Long: `List drafts newest first, one row per record.

Only manual saves are shown unless --all is given. The list is capped at
--limit rows (default: the configured browser limit).`,
		Example: `  draftctl list
  draftctl list --all --limit 10
  draftctl list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "include autosaves")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum rows (0 uses the configured limit)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	drafts, cfg, err := openDrafts(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer drafts.Close()

	limit := opts.Limit
	if limit <= 0 {
		limit = cfg.Browser.Limit
	}

	b := browser.New(drafts)
	entries := b.List(ctx, browser.Filter{IncludeAutosave: opts.All, Limit: limit})
	formatter.VerboseLog("listed %d draft(s) (limit %d, autosaves %t)", len(entries), limit, opts.All)

	if formatter.JSON() {
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No drafts found.")
		return nil
	}
	return writeEntries(cmd.OutOrStdout(), entries)
}

// writeEntries prints entries as an aligned table.
func writeEntries(w io.Writer, entries []browser.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tPROJECT\tSTEP\tMODULES\tRISKS\tTYPE\tUPDATED")
	for _, e := range entries {
		project := e.ProjectName
		if project == "" {
			project = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			e.SessionID, project, e.StepLabel, e.ModuleCount, e.RiskCount, e.Provenance, e.Relative)
	}
	return tw.Flush()
}
