// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package watchui implements the live fleet view behind "garrison
// watch": a bubbletea model that polls the daemon's control socket
// and renders one row per session with its state, uptime, and, while
// reconnecting, the failure and attempt count driving the backoff.
//
// The model is deliberately read-only. Mutations (restart, stop, say)
// stay on the plain CLI where they compose with shell history and
// scripts; the watch view is for keeping an eye on a fleet while it
// runs.
package watchui
