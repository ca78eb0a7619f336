// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports what build of garrison a binary is.
//
// The four package-level variables ([GitCommit], [GitDirty],
// [BuildTime], [Version]) are stamped by -ldflags -X in release
// builds and fall back to "unknown" / "0.1.0-dev" in development
// builds and under go test.
//
// [Info] is the usual consumer: it renders the single line printed
// for --version, such as "0.1.0-dev (abc1234, 2026-02-10T...)".
// [Full] adds the Go toolchain and GOOS/GOARCH underneath, [Short]
// and [Commit] expose the individual fields, and [Print] writes
// "<binary> <Info>" to stdout.
package version
