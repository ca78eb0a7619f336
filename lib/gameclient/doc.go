// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package gameclient defines the boundary between garrison's session
// supervision and the game protocol.
//
// A [Dialer] establishes one authenticated connection to a game server
// and returns a [Conn]. The Conn surfaces server activity as a single
// ordered stream of [Event] values and accepts the small set of
// actions the supervisor needs: chat, held-item activation, menu slot
// clicks, orientation, attacks, and world-state queries.
//
// The wire protocol itself lives outside this repository. Embedders
// provide a Dialer for their protocol adapter; garrison never parses
// packets. Two in-tree implementations exist:
//
//   - [FakeDialer] / [FakeConn]: inert test doubles. Tests emit events
//     and script action failures explicitly.
//   - [SimDialer]: a self-driving fake that behaves like a cooperative
//     server (login, spawn, menu, join confirmation). The daemon's
//     --simulate flag and end-to-end tests run on it.
//
// Event channel contract: events arrive in server order, the channel
// is closed when the connection dies or is closed, and no events are
// delivered after close. Each Conn has exactly one consumer, the
// session supervisor that owns it.
package gameclient
