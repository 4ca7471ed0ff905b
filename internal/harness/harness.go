package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/clock"
	"github.com/roach88/quotedraft/internal/consistency"
	"github.com/roach88/quotedraft/internal/draft"
	"github.com/roach88/quotedraft/internal/scheduler"
	"github.com/roach88/quotedraft/internal/store"
	"github.com/roach88/quotedraft/internal/testutil"
)

// Harness is the execution state of one scenario run.
type Harness struct {
	clock   *clock.Fake
	drafts  *store.Drafts
	session *draft.Session
	result  *Result
	start   time.Time

	form assessment.Data
	step int
}

// Run executes a scenario and returns the result.
//
// Each run gets a fresh in-memory store, a fake clock starting at
// testutil.Epoch, record ids "rec-1", "rec-2", ... and session ids
// "sess_1", "sess_2", ...
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	clk := clock.NewFake(testutil.Epoch)
	mem := store.NewMemory()
	if err := seed(ctx, mem, scenario.Seed); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	h := &Harness{
		clock:  clk,
		result: NewResult(),
		start:  testutil.Epoch,
	}

	backend := &recordingBackend{Backend: mem, h: h}
	h.drafts = store.NewDrafts(backend, store.WithClock(clk), store.WithLogger(logger))

	opts := []scheduler.Option{
		scheduler.WithClock(clk),
		scheduler.WithSessionIDs(testutil.NewSequence(scheduler.SessionIDPrefix)),
		scheduler.WithRecordIDs(testutil.NewSequence("rec-")),
		scheduler.WithLogger(logger),
	}
	if scenario.SessionID != "" {
		opts = append(opts, scheduler.WithSessionID(scenario.SessionID))
	}
	if scenario.AutoSave != nil {
		opts = append(opts, scheduler.WithAutoSave(*scenario.AutoSave))
	}
	if scenario.Delay != "" {
		d, err := ParseDuration(scenario.Delay)
		if err != nil {
			return nil, err
		}
		opts = append(opts, scheduler.WithDelay(d))
	}
	h.session = draft.NewSession(h.drafts, scheduler.New(h.drafts, opts...))
	defer h.session.Close()

	for i, st := range scenario.Steps {
		if err := h.execute(ctx, st); err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, st.Op, err)
		}
	}

	actx := &AssertionContext{Ctx: ctx, Session: h.session, Drafts: h.drafts}
	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions, actx) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func (h *Harness) execute(ctx context.Context, st Step) error {
	var err error

	switch st.Op {
	case OpEdit:
		if h.form, err = applySet(h.form, st.Set); err != nil {
			return err
		}
		err = h.session.FieldChanged(h.form, h.step)

	case OpStepChange:
		h.step = *st.Step
		err = h.session.StepChanged(ctx, h.form, h.step)

	case OpSave:
		err = h.session.SaveDraft(ctx, h.form, h.step)

	case OpAdvance:
		d, perr := ParseDuration(st.Duration)
		if perr != nil {
			return perr
		}
		h.clock.Advance(d)

	case OpFlush:
		_, _, err = h.session.Scheduler().Flush(ctx)

	case OpCancel:
		h.session.Scheduler().Cancel()

	case OpCleanup:
		n := h.session.Cleanup(ctx)
		h.event(TraceEvent{Op: OpCleanup, Count: &n})

	case OpNewSession:
		sid := h.session.GenerateNewSession()
		h.event(TraceEvent{Op: OpNewSession, SessionID: sid})

	case OpResume:
		rec, found := h.session.Resume(ctx, st.Session)
		outcome := "missing"
		if found {
			h.form, h.step = rec.Data, rec.CurrentStep
			outcome = "found"
		}
		h.event(TraceEvent{Op: OpResume, SessionID: st.Session, Outcome: outcome})

	case OpDeleteSession:
		sid := st.Session
		if sid == "" {
			sid = h.session.SessionID()
		}
		n := h.session.DeleteSession(ctx, sid)
		h.event(TraceEvent{Op: OpDeleteSession, SessionID: sid, Count: &n})

	case OpPreSubmit:
		return h.preSubmit(ctx, st.Resolution)

	case OpClose:
		err = h.session.Close()

	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}

	if errors.Is(err, scheduler.ErrClosed) {
		h.event(TraceEvent{Op: st.Op, Outcome: "closed"})
		return nil
	}
	return err
}

func (h *Harness) preSubmit(ctx context.Context, resolution string) error {
	resolver := draft.ResolverFunc(func(context.Context, consistency.Report) draft.Resolution {
		if resolution == "force" {
			return draft.ResolveForce
		}
		return draft.ResolveResave
	})

	decision, err := h.session.PreSubmit(ctx, h.form, resolver)
	if err != nil {
		return err
	}

	outcome := "blocked"
	if decision.Proceed {
		outcome = "proceed"
	}
	n := len(decision.Report.Details)
	h.event(TraceEvent{Op: EventSubmit, Count: &n, Outcome: outcome})
	return nil
}

// event appends ev stamped with the current clock time.
func (h *Harness) event(ev TraceEvent) {
	ev.At = h.clock.Now().Sub(h.start).Milliseconds()
	h.result.addEvent(ev)
}

// recordingBackend traces every successful write.
type recordingBackend struct {
	store.Backend
	h *Harness
}

func (b *recordingBackend) Put(ctx context.Context, rec assessment.Record) error {
	if err := b.Backend.Put(ctx, rec); err != nil {
		return err
	}
	step, manual := rec.CurrentStep, rec.Metadata.IsManualSave
	b.h.result.addEvent(TraceEvent{
		Op:        EventPut,
		At:        rec.Metadata.UpdatedAt - b.h.start.UnixMilli(),
		SessionID: rec.SessionID,
		RecordID:  rec.ID,
		Step:      &step,
		Manual:    &manual,
	})
	return nil
}

// applySet merges JSON-shaped field values into d.
func applySet(d assessment.Data, set map[string]any) (assessment.Data, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return d, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return d, err
	}
	for k, v := range set {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return d, fmt.Errorf("set: %w", err)
	}
	var out assessment.Data
	if err := json.Unmarshal(merged, &out); err != nil {
		return d, fmt.Errorf("set: %w", err)
	}
	return out, nil
}

func seed(ctx context.Context, b store.Backend, records []SeedRecord) error {
	for _, s := range records {
		age, err := ParseDuration(s.Age)
		if err != nil {
			return err
		}
		data, err := applySet(assessment.Data{}, s.Data)
		if err != nil {
			return err
		}
		rec := assessment.Record{
			ID:          s.ID,
			SessionID:   s.SessionID,
			CurrentStep: s.Step,
			Data:        data,
			Metadata: assessment.Metadata{
				UpdatedAt:    testutil.Epoch.Add(-age).UnixMilli(),
				IsManualSave: s.Manual,
			},
		}
		if err := b.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
