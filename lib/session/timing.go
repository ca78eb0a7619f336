// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import "time"

// Timing collects the supervisor's fixed delays and bounds. The zero
// value of any field falls back to the default for that field, so
// callers override only what they need.
type Timing struct {
	// DialTimeout bounds one connection attempt.
	DialTimeout time.Duration

	// SpawnTimeout bounds the wait for the world spawn event after
	// login.
	SpawnTimeout time.Duration

	// SpawnSettle is the grace period after spawn before the handshake
	// touches anything, letting world state stream in.
	SpawnSettle time.Duration

	// MenuTimeout bounds one wait for the server menu to open.
	MenuTimeout time.Duration

	// MenuAttempts is the total number of menu-open tries before the
	// handshake fails.
	MenuAttempts int

	// MenuRetryDelay is the pause between menu-open tries.
	MenuRetryDelay time.Duration

	// MenuStabilize is the pause between the menu opening and the slot
	// click, letting the server finish populating it.
	MenuStabilize time.Duration

	// JoinTimeout bounds the wait for the join broadcast after the
	// slot click.
	JoinTimeout time.Duration

	// PostJoinSettle is the pause after join confirmation before the
	// session is declared active.
	PostJoinSettle time.Duration

	// PlannedRestart is the active-session lifetime. When it elapses
	// the session cycles through a fresh connection to shed server-side
	// state.
	PlannedRestart time.Duration

	// AttackPace is the combat loop delay after a swing.
	AttackPace time.Duration

	// IdlePoll is the combat loop delay when no target is in range.
	IdlePoll time.Duration

	// ErrorPause is the combat loop delay after a failed step.
	ErrorPause time.Duration

	// CommandTimeout bounds one operator-command chat send.
	CommandTimeout time.Duration
}

// DefaultTiming returns the standard supervisor timing.
func DefaultTiming() Timing {
	return Timing{
		DialTimeout:    10 * time.Second,
		SpawnTimeout:   10 * time.Second,
		SpawnSettle:    2 * time.Second,
		MenuTimeout:    5 * time.Second,
		MenuAttempts:   3,
		MenuRetryDelay: 1 * time.Second,
		MenuStabilize:  1 * time.Second,
		JoinTimeout:    15 * time.Second,
		PostJoinSettle: 1 * time.Second,
		PlannedRestart: 30 * time.Minute,
		AttackPace:     500 * time.Millisecond,
		IdlePoll:       100 * time.Millisecond,
		ErrorPause:     500 * time.Millisecond,
		CommandTimeout: 5 * time.Second,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.DialTimeout <= 0 {
		t.DialTimeout = def.DialTimeout
	}
	if t.SpawnTimeout <= 0 {
		t.SpawnTimeout = def.SpawnTimeout
	}
	if t.SpawnSettle <= 0 {
		t.SpawnSettle = def.SpawnSettle
	}
	if t.MenuTimeout <= 0 {
		t.MenuTimeout = def.MenuTimeout
	}
	if t.MenuAttempts <= 0 {
		t.MenuAttempts = def.MenuAttempts
	}
	if t.MenuRetryDelay <= 0 {
		t.MenuRetryDelay = def.MenuRetryDelay
	}
	if t.MenuStabilize <= 0 {
		t.MenuStabilize = def.MenuStabilize
	}
	if t.JoinTimeout <= 0 {
		t.JoinTimeout = def.JoinTimeout
	}
	if t.PostJoinSettle <= 0 {
		t.PostJoinSettle = def.PostJoinSettle
	}
	if t.PlannedRestart <= 0 {
		t.PlannedRestart = def.PlannedRestart
	}
	if t.AttackPace <= 0 {
		t.AttackPace = def.AttackPace
	}
	if t.IdlePoll <= 0 {
		t.IdlePoll = def.IdlePoll
	}
	if t.ErrorPause <= 0 {
		t.ErrorPause = def.ErrorPause
	}
	if t.CommandTimeout <= 0 {
		t.CommandTimeout = def.CommandTimeout
	}
	return t
}
