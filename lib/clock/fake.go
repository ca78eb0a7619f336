// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock reading the given initial time. The clock
// never moves on its own: timers, tickers, and sleeps pile up as
// pending waiters until a call to Advance carries the clock past their
// deadlines.
//
// FakeClock may be shared freely across goroutines.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// FakeClock is the deterministic Clock used throughout garrison's
// tests. Nothing fires until Advance moves the clock past a waiter's
// deadline, so tests control backoff delays and handshake timeouts
// exactly.
//
// AfterFunc callbacks run synchronously inside Advance, ordered by
// deadline. Calling Sleep or Advance from inside such a callback
// deadlocks.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	pending []*pendingTimer
	changed *sync.Cond
}

// pendingTimer is a registered timer, ticker, or sleep.
type pendingTimer struct {
	deadline time.Time

	// ch receives the fire time for After, Sleep, and Ticker waiters.
	// Nil for AfterFunc waiters.
	ch chan time.Time

	// callback runs synchronously during Advance for AfterFunc
	// waiters. Nil otherwise.
	callback func()

	// interval is non-zero for tickers. After firing, the waiter is
	// rescheduled at deadline + interval.
	interval time.Duration

	// stopped is set by Timer.Stop or Ticker.Stop. Stopped waiters are
	// skipped during Advance and dropped from the pending list.
	stopped bool

	// fired marks a one-shot waiter that has already fired, so
	// overlapping Advance calls cannot fire it twice.
	fired bool
}

// Now reports the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock advances d past
// now. For d <= 0 the channel is pre-filled and no waiter is
// registered.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}

	c.pending = append(c.pending, &pendingTimer{
		deadline: c.current.Add(d),
		ch:       ch,
	})
	c.changed.Broadcast()
	return ch
}

// AfterFunc schedules f to run after duration d. The returned Timer's
// C field is nil. If d <= 0, f runs synchronously before AfterFunc
// returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d <= 0 {
		c.mu.Unlock()
		f()
		c.mu.Lock()
		return &Timer{
			C:         nil,
			stopFunc:  func() bool { return false },
			resetFunc: func(time.Duration) bool { return false },
		}
	}

	w := &pendingTimer{
		deadline: c.current.Add(d),
		callback: f,
	}
	c.pending = append(c.pending, w)
	c.changed.Broadcast()

	return &Timer{
		C: nil,
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if w.stopped || w.fired {
				return false
			}
			w.stopped = true
			return true
		},
		resetFunc: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			wasActive := !w.stopped && !w.fired
			w.stopped = false
			w.fired = false
			w.deadline = c.current.Add(d)
			// Re-register if the waiter already fired and was dropped
			// from the pending list.
			if !wasActive {
				c.pending = append(c.pending, w)
				c.changed.Broadcast()
			}
			return wasActive
		},
	}
}

// NewTicker returns a Ticker whose C receives once per interval d of
// advanced time. Panics if d <= 0.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	w := &pendingTimer{
		deadline: c.current.Add(d),
		ch:       ch,
		interval: d,
	}
	c.pending = append(c.pending, w)
	c.changed.Broadcast()

	return &Ticker{
		C: ch,
		stopFunc: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			w.stopped = true
		},
		resetFunc: func(d time.Duration) {
			c.mu.Lock()
			defer c.mu.Unlock()
			w.interval = d
			w.deadline = c.current.Add(d)
			w.stopped = false
		},
	}
}

// Sleep pauses the calling goroutine until the clock advances past the
// deadline. Returns immediately if d <= 0.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-c.After(d)
}

// Advance moves the clock forward by d and fires every timer, ticker,
// and sleep whose deadline falls within the new time. Waiters fire in
// deadline order for determinism.
//
// AfterFunc callbacks run synchronously in the calling goroutine.
// Channel sends for After, Sleep, and Ticker are non-blocking,
// matching time.Ticker's drop-if-full behavior.
//
// If the advance spans multiple ticker intervals, the ticker fires
// once per interval. Ticks that overflow the channel buffer are
// dropped.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	// Loop because AfterFunc callbacks may register new timers whose
	// deadlines are already due at the target time.
	for {
		due := c.takeDue(target)
		if len(due) == 0 {
			return
		}

		sort.Slice(due, func(i, j int) bool {
			return due[i].deadline.Before(due[j].deadline)
		})

		for _, w := range due {
			if w.callback != nil {
				w.callback()
			} else if w.ch != nil {
				select {
				case w.ch <- target:
				default:
				}
			}
		}
	}
}

// takeDue removes due waiters from the pending list, reschedules
// tickers, and returns the waiters that should fire. Acquires c.mu
// internally; must be called without it held.
func (c *FakeClock) takeDue(target time.Time) []*pendingTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due []*pendingTimer
	var remaining []*pendingTimer

	for _, w := range c.pending {
		if w.stopped {
			continue
		}
		if !w.deadline.After(target) {
			due = append(due, w)
		} else {
			remaining = append(remaining, w)
		}
	}

	// Tickers get rescheduled for the next interval. One-shot waiters
	// leave the pending list.
	for _, w := range due {
		if w.interval > 0 {
			w.deadline = w.deadline.Add(w.interval)
			remaining = append(remaining, w)
		} else {
			w.fired = true
		}
	}

	c.pending = remaining
	return due
}

// WaitForTimers blocks until at least n timers, tickers, or sleeps are
// pending (registered but not yet fired). This eliminates the race
// between a goroutine registering a timer and the test advancing the
// clock.
//
// Example:
//
//	go func() { clk.Sleep(5 * time.Second) }()
//	clk.WaitForTimers(1)         // Sleep has registered its waiter
//	clk.Advance(5 * time.Second) // fires it deterministically
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of active (non-stopped) pending
// waiters. Useful for asserting that shutdown cancelled every timer.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *FakeClock) pendingLocked() int {
	count := 0
	for _, w := range c.pending {
		if !w.stopped {
			count++
		}
	}
	return count
}
