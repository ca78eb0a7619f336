// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"context"
	"time"
)

// Clock is the time source injected into everything in garrison that
// waits or schedules. Production wiring passes Real(); tests pass
// Fake() and advance time explicitly.
//
// Code must not call time.Now, time.After, time.AfterFunc,
// time.NewTicker, or time.Sleep directly; take a Clock parameter or
// hold a Clock field instead.
type Clock interface {
	// Now reports the current time.
	Now() time.Time

	// After returns a channel on which the current time is delivered
	// once d has elapsed, like time.After. For d <= 0 the delivery is
	// immediate.
	After(d time.Duration) <-chan time.Time

	// AfterFunc runs f once d has elapsed. The returned Timer cancels
	// the pending call via Stop; its C field is nil, as with
	// time.AfterFunc. For d <= 0, f runs right away: on its own
	// goroutine under Real, synchronously under Fake.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker returns a Ticker delivering a tick on C every d, like
	// time.NewTicker. Panics when d <= 0.
	NewTicker(d time.Duration) *Ticker

	// Sleep blocks the calling goroutine for at least d, like
	// time.Sleep.
	Sleep(d time.Duration)
}

// SleepContext pauses for duration d or until ctx is done, whichever
// comes first. Returns nil after a full sleep and ctx.Err() if the
// context ended the wait early. Cancellation-aware pacing for loops
// that must stop promptly on shutdown.
func SleepContext(ctx context.Context, c Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.After(d):
		return nil
	}
}

// Ticker delivers periodic ticks on C until stopped. Stop releases the
// underlying timer; it never closes C.
//
// C holds at most one pending tick, the same policy as time.Ticker: a
// slow consumer loses ticks instead of accumulating a backlog.
type Ticker struct {
	// C carries the ticks. Capacity 1.
	C <-chan time.Time

	stopFunc  func()
	resetFunc func(time.Duration)
}

// Stop ends tick delivery. C stays open and simply goes quiet.
func (t *Ticker) Stop() { t.stopFunc() }

// Reset switches the ticker to interval d. The next tick lands a full
// d after the call.
func (t *Ticker) Reset(d time.Duration) { t.resetFunc(d) }

// Timer is a single scheduled event. Timers from AfterFunc carry a nil
// C; the channel-delivering form is After, which hands back only the
// channel.
type Timer struct {
	// C is nil for timers created by AfterFunc.
	C <-chan time.Time

	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop cancels the pending fire. It reports false when the timer had
// already fired or was already stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Reset reschedules the timer to fire after d, reporting whether it
// was still pending beforehand.
func (t *Timer) Reset(d time.Duration) bool { return t.resetFunc(d) }
