// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time so that session lifecycle logic can be
// tested deterministically.
//
// Nearly everything garrison does is time-shaped: reconnect backoff
// delays, handshake step timeouts, planned restart timers, combat
// pacing. Code that called the time package directly would force tests
// to sleep for real durations and would still race the scheduler.
// Instead, every component that waits or schedules accepts a
// clock.Clock. Production wiring injects Real(); tests inject Fake()
// and drive time explicitly.
//
// # Wiring Pattern
//
// Structs that wait carry a Clock field:
//
//	type Supervisor struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	s := &Supervisor{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Unix(0, 0))
//	s := &Supervisor{clock: c}
//	// ... start goroutines ...
//	c.WaitForTimers(1) // wait for the goroutine to register a timer
//	c.Advance(5 * time.Second) // fire it deterministically
//
// # FakeClock Synchronization
//
// Sleep, After, NewTicker, and AfterFunc on a FakeClock each register
// a pending waiter. WaitForTimers blocks until the given number of
// waiters exist, which removes the race between a goroutine arriving
// at its sleep and the test advancing past it. Advance then fires
// whatever is due, earliest deadline first.
package clock
