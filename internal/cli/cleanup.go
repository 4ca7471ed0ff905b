package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quotedraft/internal/store"
)

// CleanupOptions holds flags for the cleanup command.
type CleanupOptions struct {
	*RootOptions
	Watch    bool
	Interval time.Duration
}

// CleanupResult is the JSON payload of a one-shot cleanup.
type CleanupResult struct {
	Removed int `json:"removed"`
}

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove drafts past their retention window",
		Long: `Remove autosaves older than the autosave retention and manual saves older
than the manual retention, measured from each record's updatedAt.

With --watch the sweep repeats every --interval until interrupted.`,
		Example: `  draftctl cleanup
  draftctl cleanup --watch --interval 30m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "keep sweeping until interrupted")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "sweep interval with --watch (0 uses the configured interval)")

	return cmd
}

func runCleanup(opts *CleanupOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	drafts, cfg, err := openDrafts(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer drafts.Close()

	if !opts.Watch {
		n := drafts.Cleanup(ctx)
		if formatter.JSON() {
			return formatter.Success(CleanupResult{Removed: n})
		}
		return formatter.Success(fmt.Sprintf("Removed %d expired draft(s)", n))
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = cfg.Retention.CleanupInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping janitor", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Sweeping expired drafts every %s. Press Ctrl-C to stop.\n", interval)
	<-store.NewJanitor(drafts, interval).Start(ctx)

	slog.Info("janitor stopped")
	return nil
}
