package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/quotedraft/internal/consistency"
	"github.com/roach88/quotedraft/internal/store"
)

// DiffOptions holds arguments for the diff command.
type DiffOptions struct {
	*RootOptions
	SessionID string
	File      string
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <session-id> <assessment.json>",
		Short: "Compare an assessment with the session's latest draft",
		Long: `Compare an assessment payload with the latest draft of a session and
report every differing field.

Exit codes:
  0 - the assessment matches the draft
  1 - the assessment differs, or the session has no drafts
  2 - command error (unreadable file, store unavailable)`,
		Example:       `  draftctl diff sess_01928f3e-... ./assessment.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SessionID = args[0]
			opts.File = args[1]
			return runDiff(opts, cmd)
		},
	}
	return cmd
}

func runDiff(opts *DiffOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	current, err := readAssessment(opts.File)
	if err != nil {
		return err
	}

	drafts, _, err := openDrafts(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer drafts.Close()

	cached, ok := drafts.LatestForSession(ctx, opts.SessionID)
	if !ok {
		nf := store.NotFound("diff", opts.SessionID)
		if formatter.JSON() {
			formatter.Error(CodeNotFound, nf.Error(), map[string]string{"session_id": opts.SessionID})
		}
		return WrapExitError(ExitFailure, "draft not found", nf)
	}
	formatter.VerboseLog("comparing %s with record %s", opts.File, cached.ID)

	report := consistency.Diff(&current, &cached.Data)
	if formatter.JSON() {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else if err := report.Render(cmd.OutOrStdout()); err != nil {
		return err
	}

	if report.HasDifferences {
		return NewExitError(ExitFailure, "assessment differs from the last saved draft")
	}
	return nil
}
