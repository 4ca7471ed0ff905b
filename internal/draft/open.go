package draft

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/quotedraft/internal/clock"
	"github.com/roach88/quotedraft/internal/config"
	"github.com/roach88/quotedraft/internal/scheduler"
	"github.com/roach88/quotedraft/internal/store"
)

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	clock     clock.Clock
	logger    *slog.Logger
	scheduler []scheduler.Option
}

// WithClock sets the clock shared by the store, the scheduler and the
// janitor. Default: clock.System.
func WithClock(c clock.Clock) OpenOption {
	return func(o *openOptions) {
		o.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) OpenOption {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithSchedulerOptions appends scheduler options, applied after the ones
// derived from the config.
func WithSchedulerOptions(opts ...scheduler.Option) OpenOption {
	return func(o *openOptions) {
		o.scheduler = append(o.scheduler, opts...)
	}
}

// OpenBackend opens the storage backend named by cfg.
func OpenBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		r, err := store.OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// OpenDrafts opens the backend named by cfg and applies its retention and
// history settings. The caller closes the result.
func OpenDrafts(ctx context.Context, cfg *config.Config, opts ...store.DraftsOption) (*store.Drafts, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	base := []store.DraftsOption{
		store.WithRetention(cfg.Retention.Autosave, cfg.Retention.Manual),
		store.WithHistoryLimit(cfg.Retention.HistoryLimit),
	}
	return store.NewDrafts(backend, append(base, opts...)...), nil
}

// Open builds an editor session from cfg: the draft store, a scheduler
// using the configured debounce and autosave switch, and a janitor that
// sweeps expired drafts once before Open returns and then every
// retention.cleanup_interval. Close stops the janitor and closes the store.
func Open(ctx context.Context, cfg *config.Config, opts ...OpenOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := openOptions{clock: clock.System{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	drafts, err := OpenDrafts(ctx, cfg, store.WithClock(o.clock), store.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}

	schedOpts := append([]scheduler.Option{
		scheduler.WithClock(o.clock),
		scheduler.WithDelay(cfg.Scheduler.Debounce),
		scheduler.WithAutoSave(cfg.Scheduler.AutoSave),
		scheduler.WithLogger(o.logger),
	}, o.scheduler...)

	s := NewSession(drafts, scheduler.New(drafts, schedOpts...))
	s.logger = o.logger
	s.ownsStore = true
	s.janitor = store.NewJanitor(drafts, cfg.Retention.CleanupInterval)
	s.janitor.Start(context.WithoutCancel(ctx))

	o.logger.Debug("draft session opened",
		"backend", cfg.Backend,
		"session", s.SessionID(),
		"debounce", cfg.Scheduler.Debounce,
		"autosave", cfg.Scheduler.AutoSave,
	)
	return s, nil
}
