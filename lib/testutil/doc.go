// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil carries the test helpers shared across garrison
// packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap channel
// operations in a select with a wall-clock deadline. They are the one
// place real time.After appears in the suite; every duration under
// test runs on clock.FakeClock instead.
//
// [SocketDir] makes a short-pathed temp directory in /tmp for Unix
// domain sockets. sun_path in sockaddr_un caps socket paths at 108
// bytes, and t.TempDir() respects TMPDIR, which CI runners sometimes
// point at deeply nested directories past that cap. Cleanup removes
// the directory with the test.
//
// [UniqueID] hands out counter-based identifiers so parallel tests can
// mint distinct session names and message bodies.
//
// Helpers fail the test via t.Fatalf instead of returning errors; a
// broken fixture is never worth continuing from.
//
// This package depends on no other garrison packages.
package testutil
