// Package browser lists saved drafts and lets a user resume or delete them.
//
// A Browser is driven by one UI and is not safe for concurrent use.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/clock"
	"github.com/roach88/quotedraft/internal/store"
)

// DefaultLimit caps the number of listed drafts.
const DefaultLimit = 50

// ErrNotConfirmed is returned when a destructive action was declined.
var ErrNotConfirmed = errors.New("browser: action not confirmed")

// ErrNoResumer is returned by Load when the browser has nowhere to hand
// the session.
var ErrNoResumer = errors.New("browser: no resumer configured")

// Store is the subset of *store.Drafts the browser reads and deletes through.
type Store interface {
	All(ctx context.Context) []assessment.Record
	DeleteSession(ctx context.Context, sessionID string) int
}

// Resumer switches the editing session to an existing draft.
type Resumer interface {
	Resume(ctx context.Context, sessionID string) (assessment.Record, bool)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Filter selects which drafts List returns.
type Filter struct {
	IncludeAutosave bool
	Limit           int // <= 0 means DefaultLimit
}

// Entry is one listed draft with its display summary.
type Entry struct {
	SessionID   string    `json:"sessionId"`
	RecordID    string    `json:"recordId"`
	Step        int       `json:"step"`
	StepLabel   string    `json:"stepLabel"`
	ModuleCount int       `json:"moduleCount"`
	RiskCount   int       `json:"riskCount"`
	Provenance  string    `json:"provenance"`
	ProjectName string    `json:"projectName,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Relative    string    `json:"relative"`
	Fingerprint string    `json:"fingerprint"`
}

// Browser lists drafts and remembers the last filter so deletions can
// refresh the same view.
type Browser struct {
	store   Store
	clock   clock.Clock
	resumer Resumer
	filter  Filter
	entries []Entry
}

// Option configures a Browser.
type Option func(*Browser)

// WithClock sets the clock used for relative times.
func WithClock(c clock.Clock) Option {
	return func(b *Browser) {
		b.clock = c
	}
}

// WithResumer sets where Load hands sessions.
func WithResumer(r Resumer) Option {
	return func(b *Browser) {
		b.resumer = r
	}
}

// New creates a Browser over s.
func New(s Store, opts ...Option) *Browser {
	b := &Browser{
		store:   s,
		clock:   clock.System{},
		entries: []Entry{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// List returns drafts newest first: manual saves only unless the filter
// includes autosaves, capped at the filter's limit.
func (b *Browser) List(ctx context.Context, f Filter) []Entry {
	b.filter = f
	return b.Refresh(ctx)
}

// Refresh re-reads the store with the last filter.
func (b *Browser) Refresh(ctx context.Context) []Entry {
	limit := b.filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	all := b.store.All(ctx)
	selected := make([]assessment.Record, 0, len(all))
	for _, rec := range all {
		if b.filter.IncludeAutosave || rec.Metadata.IsManualSave {
			selected = append(selected, rec)
		}
	}
	store.SortNewestFirst(selected)
	if len(selected) > limit {
		selected = selected[:limit]
	}

	now := b.clock.Now()
	entries := make([]Entry, len(selected))
	for i, rec := range selected {
		entries[i] = Summarize(rec, now)
	}
	b.entries = entries
	return entries
}

// Entries returns the result of the last List or Refresh.
func (b *Browser) Entries() []Entry {
	return b.entries
}

// Load hands sessionID to the resumer. The store is only read.
func (b *Browser) Load(ctx context.Context, sessionID string) (assessment.Record, bool, error) {
	if b.resumer == nil {
		return assessment.Record{}, false, ErrNoResumer
	}
	rec, found := b.resumer.Resume(ctx, sessionID)
	return rec, found, nil
}

// Delete removes every record of sessionID once c approves, then refreshes
// the list. Deletion is permanent.
func (b *Browser) Delete(ctx context.Context, sessionID string, c Confirmer) (int, error) {
	prompt := fmt.Sprintf("Delete draft %s? This cannot be undone.", sessionID)
	if c == nil || !c.Confirm(prompt) {
		return 0, ErrNotConfirmed
	}
	n := b.store.DeleteSession(ctx, sessionID)
	b.Refresh(ctx)
	return n, nil
}

// Summarize builds the display entry for rec as seen at now.
func Summarize(rec assessment.Record, now time.Time) Entry {
	updated := rec.UpdatedTime()
	return Entry{
		SessionID:   rec.SessionID,
		RecordID:    rec.ID,
		Step:        rec.CurrentStep,
		StepLabel:   assessment.StepLabel(rec.CurrentStep),
		ModuleCount: rec.Data.ModuleCount(),
		RiskCount:   rec.Data.RiskCount(),
		Provenance:  rec.Provenance(),
		ProjectName: rec.Metadata.ProjectName,
		UpdatedAt:   updated,
		Relative:    RelativeTime(now, updated),
		Fingerprint: assessment.ShortFingerprint(rec.Data),
	}
}

// RelativeTime renders t relative to now: "just now", minutes, hours or
// days ago, and a date once a week has passed.
func RelativeTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
