// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"testing"
	"time"

	"github.com/garrison-works/garrison/lib/clock"
)

func TestTimerSetArmReplaces(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	ts := newTimerSet(clk)
	fired := make(chan string, 4)

	ts.Arm("cycle", 2*time.Second, func() { fired <- "first" })
	ts.Arm("cycle", 5*time.Second, func() { fired <- "second" })
	if got := ts.LiveCount(); got != 1 {
		t.Fatalf("LiveCount() = %d, want 1", got)
	}

	// The replaced timer's deadline passes silently.
	clk.Advance(2 * time.Second)
	select {
	case name := <-fired:
		t.Fatalf("timer %q fired, want none", name)
	default:
	}

	clk.Advance(3 * time.Second)
	select {
	case name := <-fired:
		if name != "second" {
			t.Fatalf("fired timer = %q, want %q", name, "second")
		}
	default:
		t.Fatal("armed timer did not fire")
	}
	if ts.Live("cycle") {
		t.Fatal("timer still live after firing")
	}
}

func TestTimerSetCancel(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	ts := newTimerSet(clk)
	fired := make(chan struct{}, 1)

	ts.Arm("cycle", time.Second, func() { fired <- struct{}{} })
	ts.Cancel("cycle")
	if ts.Live("cycle") {
		t.Fatal("cancelled timer still live")
	}

	clk.Advance(time.Minute)
	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	default:
	}
}

func TestTimerSetCancelAll(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	ts := newTimerSet(clk)
	fired := make(chan struct{}, 2)

	ts.Arm("a", time.Second, func() { fired <- struct{}{} })
	ts.Arm("b", 2*time.Second, func() { fired <- struct{}{} })
	if got := ts.LiveCount(); got != 2 {
		t.Fatalf("LiveCount() = %d, want 2", got)
	}

	ts.CancelAll()
	if got := ts.LiveCount(); got != 0 {
		t.Fatalf("LiveCount() after CancelAll = %d, want 0", got)
	}

	clk.Advance(time.Minute)
	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	default:
	}
}

func TestTimerSetZeroDurationFiresOnAdvance(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	ts := newTimerSet(clk)
	fired := make(chan struct{}, 1)

	// Zero delays defer to the next advance instead of firing inline.
	ts.Arm("now", 0, func() { fired <- struct{}{} })
	select {
	case <-fired:
		t.Fatal("zero-duration timer fired synchronously inside Arm")
	default:
	}

	clk.Advance(time.Nanosecond)
	select {
	case <-fired:
	default:
		t.Fatal("zero-duration timer did not fire on advance")
	}
}

func TestTimerSetRearmAfterFire(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	ts := newTimerSet(clk)
	fired := make(chan int, 2)

	ts.Arm("cycle", time.Second, func() { fired <- 1 })
	clk.Advance(time.Second)
	if got := <-fired; got != 1 {
		t.Fatalf("fired = %d, want 1", got)
	}

	ts.Arm("cycle", time.Second, func() { fired <- 2 })
	clk.Advance(time.Second)
	if got := <-fired; got != 2 {
		t.Fatalf("fired = %d, want 2", got)
	}
}
