package draft

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/browser"
	"github.com/roach88/quotedraft/internal/clock"
	"github.com/roach88/quotedraft/internal/consistency"
	"github.com/roach88/quotedraft/internal/scheduler"
	"github.com/roach88/quotedraft/internal/store"
)

var epoch = time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)

type fixture struct {
	session *Session
	drafts  *store.Drafts
	clock   *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFake(epoch)
	drafts := store.NewDrafts(store.NewMemory(), store.WithClock(clk), store.WithLogger(logger))
	sched := scheduler.New(drafts,
		scheduler.WithClock(clk),
		scheduler.WithSessionIDs(scheduler.NewFixedGenerator("sess_a", "sess_b")),
		scheduler.WithLogger(logger),
	)
	s := NewSession(drafts, sched)
	s.logger = logger
	t.Cleanup(func() { s.Close() })
	return &fixture{session: s, drafts: drafts, clock: clk}
}

func form(travel float64) assessment.Data {
	return assessment.Data{
		RiskScores:   map[string]assessment.Score{"Scope": assessment.ScoreOf(2)},
		TravelMonths: travel,
	}
}

func TestFieldChanged_Coalesces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, f.session.FieldChanged(form(float64(i)), assessment.StepRiskScoring))
		f.clock.Advance(500 * time.Millisecond)
	}
	_, found := f.session.GetLatest(ctx)
	assert.False(t, found)

	f.clock.Advance(scheduler.DefaultDelay)
	rec, found := f.session.GetLatest(ctx)
	require.True(t, found)
	assert.Equal(t, 4.0, rec.Data.TravelMonths)
	assert.Len(t, f.session.All(ctx), 1)
}

func TestStepChanged_WritesImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.FieldChanged(form(1), assessment.StepRiskScoring))
	require.NoError(t, f.session.StepChanged(ctx, form(2), assessment.StepWorkload))

	rec, found := f.session.GetLatest(ctx)
	require.True(t, found)
	assert.Equal(t, assessment.StepWorkload, rec.CurrentStep)
	assert.False(t, rec.Metadata.IsManualSave)

	f.clock.Advance(time.Minute)
	assert.Len(t, f.session.All(ctx), 1, "pending field autosave was discarded")
}

func TestSaveDraft_IsManualAndInHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.StepChanged(ctx, form(1), assessment.StepWorkload))
	f.clock.Advance(time.Second)
	require.NoError(t, f.session.SaveDraft(ctx, form(2), assessment.StepWorkload))

	hist := f.session.History(ctx)
	require.Len(t, hist, 1)
	assert.True(t, hist[0].Metadata.IsManualSave)
	assert.Equal(t, 2.0, hist[0].Data.TravelMonths)
}

func TestResume_SwitchesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.SaveDraft(ctx, form(5), assessment.StepOtherCosts))
	assert.Equal(t, "sess_b", f.session.GenerateNewSession())

	_, found := f.session.GetLatest(ctx)
	assert.False(t, found, "fresh session has no drafts")

	rec, found := f.session.LoadSession(ctx, "sess_a")
	require.True(t, found)
	assert.Equal(t, 5.0, rec.Data.TravelMonths)
	assert.Equal(t, "sess_b", f.session.SessionID(), "LoadSession does not switch")

	rec, found = f.session.Resume(ctx, "sess_a")
	require.True(t, found)
	assert.Equal(t, assessment.StepOtherCosts, rec.CurrentStep)
	assert.Equal(t, "sess_a", f.session.SessionID())

	f.clock.Advance(time.Second)
	require.NoError(t, f.session.StepChanged(ctx, form(6), assessment.StepOverview))
	latest, _ := f.session.GetLatest(ctx)
	assert.Equal(t, 6.0, latest.Data.TravelMonths)
}

func TestSession_SatisfiesBrowserResumer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.session.SaveDraft(ctx, form(1), assessment.StepWorkload))
	f.session.GenerateNewSession()

	b := browser.New(f.drafts, browser.WithClock(f.clock), browser.WithResumer(f.session))
	entries := b.List(ctx, browser.Filter{})
	require.Len(t, entries, 1)

	_, found, err := b.Load(ctx, entries[0].SessionID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "sess_a", f.session.SessionID())
}

func TestCompareWithLatest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.session.CompareWithLatest(ctx, form(1)).HasDifferences, "no draft, no differences")

	require.NoError(t, f.session.StepChanged(ctx, form(1), assessment.StepOverview))
	assert.False(t, f.session.CompareWithLatest(ctx, form(1)).HasDifferences)

	r := f.session.CompareWithLatest(ctx, form(3))
	assert.Equal(t, []string{"travel_months"}, r.Fields())
}

func TestDeleteAndCleanup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.StepChanged(ctx, form(1), 0))
	require.NoError(t, f.session.SaveDraft(ctx, form(1), 0))

	f.clock.Advance(8 * 24 * time.Hour)
	assert.Equal(t, 1, f.session.Cleanup(ctx))
	assert.Equal(t, 1, f.session.DeleteSession(ctx, "sess_a"))
	assert.Empty(t, f.session.All(ctx))
}

func TestClose_DropsPendingAutosave(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.FieldChanged(form(1), 0))
	require.NoError(t, f.session.Close())
	f.clock.Advance(time.Minute)
	assert.Empty(t, f.session.All(context.Background()))
	assert.ErrorIs(t, f.session.FieldChanged(form(2), 0), scheduler.ErrClosed)
}

func TestPreSubmit(t *testing.T) {
	never := ResolverFunc(func(context.Context, consistency.Report) Resolution {
		t.Error("resolver must not be asked when nothing differs")
		return ResolveForce
	})

	t.Run("no draft proceeds", func(t *testing.T) {
		f := newFixture(t)
		d, err := f.session.PreSubmit(context.Background(), form(1), never)
		require.NoError(t, err)
		assert.True(t, d.Proceed)
	})

	t.Run("consistent proceeds", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		require.NoError(t, f.session.StepChanged(ctx, form(1), assessment.StepOverview))

		d, err := f.session.PreSubmit(ctx, form(1), never)
		require.NoError(t, err)
		assert.True(t, d.Proceed)
		assert.False(t, d.Report.HasDifferences)
	})

	t.Run("resave blocks and persists manual draft", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		require.NoError(t, f.session.StepChanged(ctx, form(1), assessment.StepOtherCosts))
		f.clock.Advance(time.Second)

		var seen consistency.Report
		d, err := f.session.PreSubmit(ctx, form(2), ResolverFunc(func(_ context.Context, r consistency.Report) Resolution {
			seen = r
			return ResolveResave
		}))
		require.NoError(t, err)
		assert.False(t, d.Proceed)
		assert.Equal(t, []string{"travel_months"}, seen.Fields())

		latest, found := f.session.GetLatest(ctx)
		require.True(t, found)
		assert.True(t, latest.Metadata.IsManualSave)
		assert.Equal(t, assessment.StepOverview, latest.CurrentStep)
		assert.Equal(t, 2.0, latest.Data.TravelMonths)

		// After the resave the same data is consistent.
		d, err = f.session.PreSubmit(ctx, form(2), never)
		require.NoError(t, err)
		assert.True(t, d.Proceed)
	})

	t.Run("force proceeds without writing", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		require.NoError(t, f.session.StepChanged(ctx, form(1), assessment.StepOtherCosts))

		d, err := f.session.PreSubmit(ctx, form(2), ResolverFunc(func(context.Context, consistency.Report) Resolution {
			return ResolveForce
		}))
		require.NoError(t, err)
		assert.True(t, d.Proceed)
		assert.True(t, d.Report.HasDifferences)
		assert.Len(t, f.session.All(ctx), 1)
	})

	t.Run("failed resave is reported", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		require.NoError(t, f.session.StepChanged(ctx, form(1), assessment.StepOtherCosts))
		f.session.Scheduler().Close()

		d, err := f.session.PreSubmit(ctx, form(2), ResolverFunc(func(context.Context, consistency.Report) Resolution {
			return ResolveResave
		}))
		assert.ErrorIs(t, err, scheduler.ErrClosed)
		assert.False(t, d.Proceed)
	})
}
