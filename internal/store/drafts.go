package store

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/clock"
)

// Retention and history defaults.
const (
	DefaultAutosaveRetention = 7 * 24 * time.Hour
	DefaultManualRetention   = 30 * 24 * time.Hour
	DefaultHistoryLimit      = 20
)

// Drafts applies the retention rules and failure policy on top of a
// Backend.
//
// Failure policy: Put and ClearAll return backend errors after logging
// them. Every other operation logs the error and degrades to an empty
// result, "not found" or zero deletions, so an unavailable backend never
// stops an editing session.
type Drafts struct {
	backend           Backend
	clock             clock.Clock
	logger            *slog.Logger
	autosaveRetention time.Duration
	manualRetention   time.Duration
	historyLimit      int
}

// DraftsOption configures Drafts.
type DraftsOption func(*Drafts)

// WithRetention sets how long autosaves and manual saves are kept,
// measured from metadata.updatedAt.
func WithRetention(autosave, manual time.Duration) DraftsOption {
	return func(d *Drafts) {
		d.autosaveRetention = autosave
		d.manualRetention = manual
	}
}

// WithHistoryLimit bounds History. Default: 20 (DefaultHistoryLimit).
func WithHistoryLimit(n int) DraftsOption {
	return func(d *Drafts) {
		d.historyLimit = n
	}
}

// WithClock sets the clock used to compute retention cutoffs.
func WithClock(c clock.Clock) DraftsOption {
	return func(d *Drafts) {
		d.clock = c
	}
}

// WithLogger sets the logger for degraded operations. Default: slog.Default().
func WithLogger(l *slog.Logger) DraftsOption {
	return func(d *Drafts) {
		d.logger = l
	}
}

// NewDrafts wraps a backend with the default retention and history limit.
func NewDrafts(b Backend, opts ...DraftsOption) *Drafts {
	d := &Drafts{
		backend:           b,
		clock:             clock.System{},
		logger:            slog.Default(),
		autosaveRetention: DefaultAutosaveRetention,
		manualRetention:   DefaultManualRetention,
		historyLimit:      DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Backend returns the wrapped backend.
func (d *Drafts) Backend() Backend {
	return d.backend
}

// Put appends a record.
func (d *Drafts) Put(ctx context.Context, rec assessment.Record) error {
	if err := d.backend.Put(ctx, rec); err != nil {
		d.logger.Error("draft save failed",
			"id", rec.ID,
			"session", rec.SessionID,
			"manual", rec.Metadata.IsManualSave,
			"error", err,
		)
		return err
	}
	d.logger.Debug("draft saved",
		"id", rec.ID,
		"session", rec.SessionID,
		"step", rec.CurrentStep,
		"manual", rec.Metadata.IsManualSave,
	)
	return nil
}

// LatestForSession returns the session's newest record.
func (d *Drafts) LatestForSession(ctx context.Context, sessionID string) (assessment.Record, bool) {
	rec, found, err := d.backend.LatestForSession(ctx, sessionID)
	if err != nil {
		d.logger.Warn("draft lookup failed", "session", sessionID, "error", err)
		return assessment.Record{}, false
	}
	return rec, found
}

// LoadSession looks up the newest record of any session, not only the
// caller's active one.
func (d *Drafts) LoadSession(ctx context.Context, sessionID string) (assessment.Record, bool) {
	return d.LatestForSession(ctx, sessionID)
}

// All returns every stored record in insertion order.
func (d *Drafts) All(ctx context.Context) []assessment.Record {
	records, err := d.backend.All(ctx)
	if err != nil {
		d.logger.Warn("draft listing failed", "error", err)
		return []assessment.Record{}
	}
	return records
}

// History returns manual saves only, newest first, at most the history
// limit. Equal timestamps keep insertion order.
func (d *Drafts) History(ctx context.Context) []assessment.Record {
	all := d.All(ctx)

	manual := make([]assessment.Record, 0, len(all))
	for _, rec := range all {
		if rec.Metadata.IsManualSave {
			manual = append(manual, rec)
		}
	}
	SortNewestFirst(manual)

	if d.historyLimit > 0 && len(manual) > d.historyLimit {
		manual = manual[:d.historyLimit]
	}
	return manual
}

// DeleteSession removes every record of a session and returns how many
// were removed.
func (d *Drafts) DeleteSession(ctx context.Context, sessionID string) int {
	n, err := d.backend.DeleteSession(ctx, sessionID)
	if err != nil {
		d.logger.Warn("draft session delete failed", "session", sessionID, "error", err)
		return 0
	}
	d.logger.Info("draft session deleted", "session", sessionID, "records", n)
	return n
}

// Cleanup evicts autosaves older than the autosave retention and manual
// saves older than the manual retention. Returns the total removed.
func (d *Drafts) Cleanup(ctx context.Context) int {
	now := clock.Millis(d.clock.Now())
	total := 0

	sweeps := []struct {
		manual    bool
		retention time.Duration
	}{
		{false, d.autosaveRetention},
		{true, d.manualRetention},
	}
	for _, sw := range sweeps {
		cutoff := now - sw.retention.Milliseconds()
		n, err := d.backend.DeleteOlderThan(ctx, cutoff, sw.manual)
		if err != nil {
			d.logger.Warn("draft cleanup failed", "manual", sw.manual, "error", err)
			continue
		}
		total += n
	}

	if total > 0 {
		d.logger.Info("draft cleanup", "removed", total)
	}
	return total
}

// ClearAll removes every record.
func (d *Drafts) ClearAll(ctx context.Context) error {
	if err := d.backend.Clear(ctx); err != nil {
		d.logger.Error("draft wipe failed", "error", err)
		return err
	}
	d.logger.Info("all drafts cleared")
	return nil
}

// Close closes the backend.
func (d *Drafts) Close() error {
	return d.backend.Close()
}

// SortNewestFirst orders records by updatedAt descending. The sort is
// stable, so equal timestamps keep their relative order.
func SortNewestFirst(records []assessment.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Metadata.UpdatedAt > records[j].Metadata.UpdatedAt
	})
}
