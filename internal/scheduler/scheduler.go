// Package scheduler decides when assessment drafts are written.
//
// A Scheduler owns the current session id and a single pending autosave.
// Immediate saves write now and discard any pending autosave. Debounced
// saves coalesce: each call re-arms a timer, and only the last call within
// the delay window is written, with that call's data.
//
// Thread-safety model:
//   - All exported methods are safe from any goroutine.
//   - Timer callbacks run on the clock's goroutine and take the same mutex.
//   - A callback whose generation no longer matches performs no write, so
//     Cancel, Close and UseSession never race a late timer into a write.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/clock"
)

// DefaultDelay is the autosave coalescing window.
const DefaultDelay = 3 * time.Second

// ErrClosed is returned by saves attempted after Close.
var ErrClosed = errors.New("scheduler: closed")

// Saver persists draft records. *store.Drafts satisfies it.
type Saver interface {
	Put(ctx context.Context, rec assessment.Record) error
}

// SavedFunc observes every write attempt. err is nil on success.
type SavedFunc func(rec assessment.Record, err error)

// pendingSave is the autosave waiting for its timer.
type pendingSave struct {
	data     assessment.Data
	step     int
	deadline time.Time
}

// Scheduler coalesces draft writes. The zero value is not usable; call New.
type Scheduler struct {
	saver     Saver
	clock     clock.Clock
	sessions  IDGenerator
	records   IDGenerator
	delay     time.Duration
	autoSave  bool
	onSaved   SavedFunc
	logger    *slog.Logger
	baseCtx   context.Context
	sessionID string

	mu          sync.Mutex
	timer       clock.Timer
	pending     *pendingSave
	generation  uint64 // bumped on every arm and cancel
	closed      bool
	saving      int
	lastSavedAt time.Time
	projectName string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time and timer source. Default: clock.System.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithDelay sets the coalescing window. Default: 3s (DefaultDelay).
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		s.delay = d
	}
}

// WithSessionIDs sets the session id generator.
func WithSessionIDs(g IDGenerator) Option {
	return func(s *Scheduler) {
		s.sessions = g
	}
}

// WithRecordIDs sets the record id generator.
func WithRecordIDs(g IDGenerator) Option {
	return func(s *Scheduler) {
		s.records = g
	}
}

// WithSessionID starts the scheduler on an existing session instead of
// minting a new one.
func WithSessionID(sessionID string) Option {
	return func(s *Scheduler) {
		s.sessionID = sessionID
	}
}

// WithAutoSave enables or disables non-manual writes. Manual saves are
// always written. Default: enabled.
func WithAutoSave(enabled bool) Option {
	return func(s *Scheduler) {
		s.autoSave = enabled
	}
}

// OnSaved registers an observer called after every write attempt.
func OnSaved(fn SavedFunc) Option {
	return func(s *Scheduler) {
		s.onSaved = fn
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithContext sets the context used for timer-driven writes.
// Default: context.Background().
func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		s.baseCtx = ctx
	}
}

// New creates a Scheduler writing to saver. Unless WithSessionID is given,
// a fresh session id is minted.
func New(saver Saver, opts ...Option) *Scheduler {
	s := &Scheduler{
		saver:    saver,
		clock:    clock.System{},
		sessions: SessionIDGenerator{},
		records:  RecordIDGenerator{},
		delay:    DefaultDelay,
		autoSave: true,
		logger:   slog.Default(),
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessionID == "" {
		s.sessionID = s.sessions.Generate()
	}
	return s
}

// SaveImmediate discards any pending autosave and writes data now.
//
// With autosave disabled, non-manual calls return a zero record and no
// error without writing.
func (s *Scheduler) SaveImmediate(ctx context.Context, data assessment.Data, step int, manual bool) (assessment.Record, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return assessment.Record{}, ErrClosed
	}
	s.cancelLocked()
	if !manual && !s.autoSave {
		s.mu.Unlock()
		return assessment.Record{}, nil
	}
	rec := s.newRecordLocked(data.Clone(), step, manual)
	s.mu.Unlock()

	return rec, s.persist(ctx, rec)
}

// SaveDebounced schedules an autosave of data after the delay, replacing
// any save already pending.
func (s *Scheduler) SaveDebounced(data assessment.Data, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if !s.autoSave {
		return nil
	}

	s.cancelLocked()
	gen := s.generation
	s.pending = &pendingSave{
		data:     data.Clone(),
		step:     step,
		deadline: s.clock.Now().Add(s.delay),
	}
	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.fire(gen)
	})
	return nil
}

// Flush writes the pending autosave now, if there is one. Reports whether
// a record was written.
func (s *Scheduler) Flush(ctx context.Context) (assessment.Record, bool, error) {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return assessment.Record{}, false, nil
	}
	p := s.pending
	s.cancelLocked()
	rec := s.newRecordLocked(p.data, p.step, false)
	s.mu.Unlock()

	err := s.persist(ctx, rec)
	return rec, err == nil, err
}

// Cancel discards the pending autosave without writing it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Close cancels the pending autosave and rejects later saves. A timer
// already firing when Close runs performs no write.
//
// Close is idempotent.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.closed = true
	return nil
}

// GenerateNewSession discards the pending autosave and switches to a
// freshly minted session.
func (s *Scheduler) GenerateNewSession() string {
	sid := s.sessions.Generate()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.sessionID = sid
	s.logger.Debug("draft session started", "session", sid)
	return sid
}

// UseSession discards the pending autosave and continues writing into an
// existing session.
func (s *Scheduler) UseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.sessionID = sessionID
	s.logger.Debug("draft session resumed", "session", sessionID)
}

// CurrentSessionID returns the session new records are written to.
func (s *Scheduler) CurrentSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// SetProjectName labels subsequent manual saves.
func (s *Scheduler) SetProjectName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectName = name
}

// Pending reports whether an autosave is armed, and its deadline.
func (s *Scheduler) Pending() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return time.Time{}, false
	}
	return s.pending.deadline, true
}

// Saving reports whether a write is in flight.
func (s *Scheduler) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving > 0
}

// LastSavedAt returns the updatedAt of the last successful write.
func (s *Scheduler) LastSavedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavedAt, !s.lastSavedAt.IsZero()
}

// fire runs on the timer goroutine.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation || s.pending == nil {
		s.mu.Unlock()
		return
	}
	p := s.pending
	s.pending = nil
	s.timer = nil
	rec := s.newRecordLocked(p.data, p.step, false)
	s.mu.Unlock()

	// persist logs and reports the error; there is no caller to return it to.
	_ = s.persist(s.baseCtx, rec)
}

// cancelLocked stops the timer and invalidates any callback already
// scheduled. Caller holds s.mu.
func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.generation++
}

// newRecordLocked builds a record for the current session and marks a
// write in flight. Caller holds s.mu.
func (s *Scheduler) newRecordLocked(data assessment.Data, step int, manual bool) assessment.Record {
	rec := assessment.Record{
		ID:          s.records.Generate(),
		SessionID:   s.sessionID,
		CurrentStep: step,
		Data:        data,
		Metadata: assessment.Metadata{
			UpdatedAt:    clock.Millis(s.clock.Now()),
			IsManualSave: manual,
		},
	}
	if manual {
		rec.Metadata.ProjectName = s.projectName
	}
	s.saving++
	return rec
}

func (s *Scheduler) persist(ctx context.Context, rec assessment.Record) error {
	err := s.saver.Put(ctx, rec)

	s.mu.Lock()
	s.saving--
	if err == nil {
		s.lastSavedAt = clock.FromMillis(rec.Metadata.UpdatedAt)
	}
	cb := s.onSaved
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("draft write failed",
			"session", rec.SessionID,
			"manual", rec.Metadata.IsManualSave,
			"error", err,
		)
	}
	if cb != nil {
		cb(rec, err)
	}
	return err
}
