package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/quotedraft/internal/browser"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	SessionID string
	Yes       bool
}

// DeleteResult is the JSON payload of delete.
type DeleteResult struct {
	SessionID string `json:"session_id"`
	Deleted   int    `json:"deleted"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Permanently delete every draft of a session",
		Long: `Delete every record of a session, manual and autosave alike.

Deletion cannot be undone and requires --yes. Exits 1 when the session
had no drafts.`,
		Example:       `  draftctl delete sess_01928f3e-... --yes`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SessionID = args[0]
			return runDelete(opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm the deletion")

	return cmd
}

func runDelete(opts *DeleteOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	drafts, _, err := openDrafts(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer drafts.Close()

	confirm := browser.ConfirmFunc(func(prompt string) bool {
		formatter.VerboseLog("%s", prompt)
		return opts.Yes
	})

	n, err := browser.New(drafts).Delete(ctx, opts.SessionID, confirm)
	if errors.Is(err, browser.ErrNotConfirmed) {
		if formatter.JSON() {
			formatter.Error(CodeNotConfirmed, "deletion requires --yes", nil)
		}
		return NewExitError(ExitCommandError, "refusing to delete without --yes")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "delete failed", err)
	}

	if n == 0 {
		if formatter.JSON() {
			formatter.Error(CodeNotFound, "no drafts for session", map[string]string{"session_id": opts.SessionID})
		}
		return NewExitError(ExitFailure, fmt.Sprintf("no drafts for session %s", opts.SessionID))
	}

	if formatter.JSON() {
		return formatter.Success(DeleteResult{SessionID: opts.SessionID, Deleted: n})
	}
	return formatter.Success(fmt.Sprintf("Deleted %d draft(s) for session %s", n, opts.SessionID))
}
