// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// garrison-daemon supervises a fleet of automated game sessions.
//
// It loads a YAML config and a JSONC roster, takes a single-instance
// lock under the state directory, runs every roster session through
// the connect/handshake/active lifecycle, and answers operator
// requests (status, restart, stop, say) on a Unix control socket.
// SIGINT or SIGTERM triggers a bounded graceful shutdown.
//
// The stock build carries no game protocol adapter; run with
// --simulate to drive the fleet against the built-in simulated server,
// or link an adapter through the hook in dialer.go.
package main
