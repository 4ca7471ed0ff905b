package cli

import (
	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "clear",
		Short:         "Remove every draft of every session",
		Long:          "Remove every stored draft. This cannot be undone and requires --yes.",
		Example:       `  draftctl clear --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm the wipe")

	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if !opts.Yes {
		if formatter.JSON() {
			formatter.Error(CodeNotConfirmed, "clear requires --yes", nil)
		}
		return NewExitError(ExitCommandError, "refusing to clear without --yes")
	}

	ctx := cmd.Context()
	drafts, _, err := openDrafts(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer drafts.Close()

	if err := drafts.ClearAll(ctx); err != nil {
		if formatter.JSON() {
			formatter.Error(CodeStore, err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "clear failed", err)
	}

	if formatter.JSON() {
		return formatter.Success(map[string]bool{"cleared": true})
	}
	return formatter.Success("All drafts cleared.")
}
