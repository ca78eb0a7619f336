// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the garrison
// daemon.
//
// Configuration is loaded from a single file specified by either the
// GARRISON_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This ensures deterministic, auditable
// configuration with no hidden overrides.
//
// Durations are written as strings ("10s", "30m") and parsed with
// time.ParseDuration; [Config.Validate] reports every malformed value
// and [Config.Runtime] converts the file into typed tunables.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${GARRISON_ROOT}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// This package depends on no other garrison packages.
package config
