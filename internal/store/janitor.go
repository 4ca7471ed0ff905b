package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/quotedraft/internal/clock"
)

// DefaultCleanupInterval is how often the janitor sweeps expired drafts.
const DefaultCleanupInterval = time.Hour

// Janitor runs Drafts.Cleanup on a fixed interval, independent of
// editing activity. Sweeps are scheduled on the Drafts clock, so a Fake
// clock drives them from Advance.
//
// Thread-safety: Start and Stop may be called from any goroutine.
type Janitor struct {
	drafts   *Drafts
	clock    clock.Clock
	interval time.Duration

	mu      sync.Mutex
	timer   clock.Timer
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// NewJanitor returns a janitor for d. A non-positive interval uses
// DefaultCleanupInterval.
func NewJanitor(d *Drafts, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &Janitor{drafts: d, clock: d.clock, interval: interval}
}

// Start sweeps once before returning and then every interval until ctx is
// done or Stop is called. The returned channel closes once the janitor has
// stopped. Calling Start again returns the same channel.
func (j *Janitor) Start(ctx context.Context) <-chan struct{} {
	j.mu.Lock()
	if j.done != nil {
		done := j.done
		j.mu.Unlock()
		return done
	}
	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	done := j.done
	if j.stopped {
		j.cancel()
	}
	j.mu.Unlock()

	j.drafts.Cleanup(ctx)

	j.mu.Lock()
	if !j.stopped {
		j.arm(ctx)
	}
	j.mu.Unlock()

	go func() {
		<-ctx.Done()
		j.halt()
		slog.Debug("draft janitor stopped")
		close(done)
	}()
	return done
}

// Stop cancels pending sweeps. Safe to call more than once, and before
// Start.
func (j *Janitor) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.mu.Unlock()

	j.halt()
	if cancel != nil {
		cancel()
	}
}

func (j *Janitor) halt() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopped = true
	if j.timer != nil {
		j.timer.Stop()
		j.timer = nil
	}
}

// arm schedules the next sweep. j.mu must be held.
func (j *Janitor) arm(ctx context.Context) {
	j.timer = j.clock.AfterFunc(j.interval, func() { j.sweep(ctx) })
}

func (j *Janitor) sweep(ctx context.Context) {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()

	j.drafts.Cleanup(ctx)

	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.stopped {
		j.arm(ctx)
	}
}
