// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

// Role selects a session's behavior once it is in the game.
type Role string

const (
	// RoleCombat marks the one privileged session that fights and
	// answers commander chat. A fleet has exactly one.
	RoleCombat Role = "combat"

	// RoleIdle marks a slot-holding session with no in-game behavior.
	RoleIdle Role = "idle"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCombat || r == RoleIdle
}

// State is a session's lifecycle phase.
//
//	idle → connecting → handshaking → active
//	          ↑              |           |
//	          └── reconnecting ←─────────┘
//
// Every failure funnels into reconnecting, which waits out the backoff
// delay and re-enters connecting. Shutdown is terminal from any state.
type State string

const (
	// StateIdle is the initial state before Start.
	StateIdle State = "idle"

	// StateConnecting covers dialing and waiting for the server to
	// accept the login.
	StateConnecting State = "connecting"

	// StateHandshaking covers the join sequence: authentication,
	// spawn, menu navigation, slot selection, join confirmation.
	StateHandshaking State = "handshaking"

	// StateActive means the session is in its target game world and
	// running its role behavior.
	StateActive State = "active"

	// StateReconnecting means the session is waiting out a backoff
	// delay before the next connection attempt.
	StateReconnecting State = "reconnecting"

	// StateShutdown is terminal. Nothing reschedules after it.
	StateShutdown State = "shutdown"
)
