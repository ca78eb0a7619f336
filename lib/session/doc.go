// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package session supervises one automated game-client connection
// through its full lifecycle.
//
// A Session owns exactly one connection at a time. After Start it
// dials, waits for login acceptance, and runs the join handshake:
// authenticate, wait for the lobby spawn, open the navigation menu,
// click the world slot, and wait for the server's join broadcast.
// Once active, a combat session scans for hostiles and attacks them;
// an idle session holds its place in the world.
//
// Every failure, from a refused dial to a mid-game kick, funnels into
// one reconnect path with exponential backoff. Long-lived sessions are
// also cycled through a planned restart so server-side state never
// grows stale. Only Shutdown is terminal.
//
// All timing flows through an injected clock.Clock, so tests drive
// backoff delays, handshake timeouts, and the planned restart with a
// fake clock instead of sleeping.
package session
