// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"sync"
	"time"

	"github.com/garrison-works/garrison/lib/clock"
)

// Timer names used by the supervisor.
const (
	timerReconnect      = "reconnect"
	timerPlannedRestart = "planned-restart"
)

// timerSet holds a session's named one-shot timers. Arming a name that
// is already armed cancels the previous timer first, so at most one
// live timer exists per name.
type timerSet struct {
	clock clock.Clock

	mu     sync.Mutex
	timers map[string]*clock.Timer
}

func newTimerSet(clk clock.Clock) *timerSet {
	return &timerSet{clock: clk, timers: make(map[string]*clock.Timer)}
}

// Arm schedules fn to run after d under the given name, replacing any
// live timer with that name. The entry is removed when the timer
// fires, so Live stays accurate.
func (ts *timerSet) Arm(name string, d time.Duration, fn func()) {
	if d <= 0 {
		// A synchronous fire inside Arm would run fn under ts.mu.
		d = time.Nanosecond
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if old, ok := ts.timers[name]; ok {
		old.Stop()
		delete(ts.timers, name)
	}

	var t *clock.Timer
	t = ts.clock.AfterFunc(d, func() {
		ts.mu.Lock()
		if ts.timers[name] == t {
			delete(ts.timers, name)
		}
		ts.mu.Unlock()
		fn()
	})
	ts.timers[name] = t
}

// Cancel stops the named timer if it is live.
func (ts *timerSet) Cancel(name string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if t, ok := ts.timers[name]; ok {
		t.Stop()
		delete(ts.timers, name)
	}
}

// CancelAll stops every live timer.
func (ts *timerSet) CancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for name, t := range ts.timers {
		t.Stop()
		delete(ts.timers, name)
	}
}

// Live reports whether the named timer is armed and has not fired.
func (ts *timerSet) Live(name string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_, ok := ts.timers[name]
	return ok
}

// LiveCount returns the number of armed timers.
func (ts *timerSet) LiveCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.timers)
}
