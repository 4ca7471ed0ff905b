package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/browser"
	"github.com/roach88/quotedraft/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	SessionID string
	Data      bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the latest draft of a session",
		Long: `Show the latest draft of a session, manual or autosave.

Exits 1 when the session has no drafts.`,
		Example: `  draftctl show sess_01928f3e-...
  draftctl show sess_01928f3e-... --data
  draftctl show sess_01928f3e-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SessionID = args[0]
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Data, "data", false, "print the assessment payload")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	drafts, _, err := openDrafts(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer drafts.Close()

	rec, ok := drafts.LoadSession(ctx, opts.SessionID)
	if !ok {
		nf := store.NotFound("show", opts.SessionID)
		if formatter.JSON() {
			formatter.Error(CodeNotFound, nf.Error(), map[string]string{"session_id": opts.SessionID})
		}
		return WrapExitError(ExitFailure, "draft not found", nf)
	}

	if formatter.JSON() {
		return formatter.Success(rec)
	}
	return writeRecord(cmd, rec, opts.Data)
}

func writeRecord(cmd *cobra.Command, rec assessment.Record, withData bool) error {
	w := cmd.OutOrStdout()
	e := browser.Summarize(rec, time.Now())

	fmt.Fprintf(w, "Session:  %s\n", e.SessionID)
	fmt.Fprintf(w, "Record:   %s\n", e.RecordID)
	if e.ProjectName != "" {
		fmt.Fprintf(w, "Project:  %s\n", e.ProjectName)
	}
	fmt.Fprintf(w, "Step:     %s\n", e.StepLabel)
	fmt.Fprintf(w, "Type:     %s\n", e.Provenance)
	fmt.Fprintf(w, "Updated:  %s (%s)\n", e.UpdatedAt.Local().Format(time.RFC3339), e.Relative)
	fmt.Fprintf(w, "Modules:  %d\n", e.ModuleCount)
	fmt.Fprintf(w, "Risks:    %d\n", e.RiskCount)
	fmt.Fprintf(w, "Content:  %s\n", e.Fingerprint)

	if !withData {
		return nil
	}
	raw, err := json.MarshalIndent(rec.Data, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode draft data", err)
	}
	fmt.Fprintf(w, "\n%s\n", raw)
	return nil
}
