// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for garrison
// binaries. It centralizes the one legitimate raw I/O pattern that
// exists before the structured logger: fatal error reporting to stderr
// when main() receives an error from run() and the logger may not be
// initialized yet.
//
// All other output in garrison binaries goes through slog (daemon) or
// the CLI command framework (operator tool).
package process
