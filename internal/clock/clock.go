// Package clock provides the wall-clock and timer source used by the draft
// engine.
//
// Draft records are ordered by wall-clock milliseconds (metadata.updatedAt),
// and the write scheduler needs a cancellable one-shot timer. Both come from
// a Clock so tests can drive time explicitly with Fake.
package clock

import "time"

// Clock supplies the current time and one-shot timers.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// AfterFunc calls f on its own goroutine once d has elapsed.
	// The returned Timer can cancel the call.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable pending call created by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was already stopped.
	Stop() bool
}

// System is the production Clock backed by package time.
//
// Thread-safety: System is stateless and safe for concurrent use.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (System) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Millis converts t to epoch milliseconds, the unit used by
// metadata.updatedAt.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds back to a time.Time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
