// Package draft wires the scheduler, the draft store and the consistency
// checker into the operations an assessment editor calls.
//
// Call sites:
//   - every field edit: FieldChanged (coalesced autosave)
//   - every wizard step change: StepChanged (immediate autosave)
//   - the explicit "save draft" action: SaveDraft (immediate manual save)
//   - resuming a listed draft: Resume
//   - before the final authoritative save: PreSubmit
package draft

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/consistency"
	"github.com/roach88/quotedraft/internal/scheduler"
	"github.com/roach88/quotedraft/internal/store"
)

// Session is one editor's view of the draft engine.
type Session struct {
	drafts *store.Drafts
	sched  *scheduler.Scheduler
	logger *slog.Logger

	// Set by Open.
	janitor   *store.Janitor
	ownsStore bool
}

// NewSession binds a scheduler and the store it writes to. The caller
// keeps ownership of drafts; use Open for a session that also runs
// retention sweeps.
func NewSession(drafts *store.Drafts, sched *scheduler.Scheduler) *Session {
	return &Session{drafts: drafts, sched: sched, logger: slog.Default()}
}

// SessionID returns the session new drafts are written to.
func (s *Session) SessionID() string {
	return s.sched.CurrentSessionID()
}

// Scheduler returns the underlying scheduler.
func (s *Session) Scheduler() *scheduler.Scheduler {
	return s.sched
}

// SaveImmediate writes data now, discarding any pending autosave.
func (s *Session) SaveImmediate(ctx context.Context, data assessment.Data, step int, manual bool) error {
	_, err := s.sched.SaveImmediate(ctx, data, step, manual)
	return err
}

// SaveDebounced schedules a coalesced autosave.
func (s *Session) SaveDebounced(data assessment.Data, step int) error {
	return s.sched.SaveDebounced(data, step)
}

// FieldChanged records a field edit.
func (s *Session) FieldChanged(data assessment.Data, step int) error {
	return s.sched.SaveDebounced(data, step)
}

// StepChanged persists the form when the wizard moves to another step.
func (s *Session) StepChanged(ctx context.Context, data assessment.Data, step int) error {
	return s.SaveImmediate(ctx, data, step, false)
}

// SaveDraft persists the form as a manual save.
func (s *Session) SaveDraft(ctx context.Context, data assessment.Data, step int) error {
	return s.SaveImmediate(ctx, data, step, true)
}

// GetLatest returns the newest draft of the current session.
func (s *Session) GetLatest(ctx context.Context) (assessment.Record, bool) {
	return s.drafts.LatestForSession(ctx, s.SessionID())
}

// LoadSession returns the newest draft of any session without switching
// to it.
func (s *Session) LoadSession(ctx context.Context, sessionID string) (assessment.Record, bool) {
	return s.drafts.LoadSession(ctx, sessionID)
}

// Resume switches to sessionID, so later saves extend it, and returns its
// newest draft.
func (s *Session) Resume(ctx context.Context, sessionID string) (assessment.Record, bool) {
	s.sched.UseSession(sessionID)
	rec, found := s.drafts.LoadSession(ctx, sessionID)
	if !found {
		s.logger.Warn("resumed session has no drafts", "session", sessionID)
	}
	return rec, found
}

// GenerateNewSession starts a fresh session.
func (s *Session) GenerateNewSession() string {
	return s.sched.GenerateNewSession()
}

// History returns recent manual saves, newest first.
func (s *Session) History(ctx context.Context) []assessment.Record {
	return s.drafts.History(ctx)
}

// All returns every stored draft.
func (s *Session) All(ctx context.Context) []assessment.Record {
	return s.drafts.All(ctx)
}

// DeleteSession removes every draft of sessionID.
func (s *Session) DeleteSession(ctx context.Context, sessionID string) int {
	return s.drafts.DeleteSession(ctx, sessionID)
}

// Cleanup evicts expired drafts.
func (s *Session) Cleanup(ctx context.Context) int {
	return s.drafts.Cleanup(ctx)
}

// CompareWithLatest diffs data against the current session's newest draft.
// No draft means no differences.
func (s *Session) CompareWithLatest(ctx context.Context, data assessment.Data) consistency.Report {
	rec, found := s.GetLatest(ctx)
	if !found {
		return consistency.Diff(&data, nil)
	}
	return consistency.Diff(&data, &rec.Data)
}

// Close flushes nothing and stops the scheduler; a pending autosave is
// dropped. A session built by Open also stops its janitor and closes the
// store.
func (s *Session) Close() error {
	if s.janitor != nil {
		s.janitor.Stop()
	}
	err := s.sched.Close()
	if s.ownsStore {
		err = errors.Join(err, s.drafts.Close())
	}
	return err
}
