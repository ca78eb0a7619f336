// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds garrison's single CBOR configuration.
//
// Garrison draws a hard line between its two serialization formats:
//
//   - JSON faces outward: CLI --json output and the JSONC roster file.
//   - CBOR stays inside: the daemon control socket.
//
// Centralizing the encode and decode modes here keeps every package on
// identical settings. Encoding is Core Deterministic Encoding
// (RFC 8949 §4.2) — sorted map keys, smallest integer widths, no
// indefinite-length items — so a given value has exactly one byte
// representation.
//
// Buffer-oriented use:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Stream-oriented use (the control socket):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// A type's struct tag declares which formats it participates in:
//
//   - `cbor` tag: CBOR-only types, like the control socket request and
//     response envelopes.
//   - `json` tag: types that travel as both JSON and CBOR.
//     fxamacker/cbor v2 falls back to `json` tags when no `cbor` tag
//     is present, so one tag governs field names and omitempty in both
//     formats. Session status records work this way: CBOR across the
//     socket, JSON out of the CLI.
//
// A field must never carry `cbor` and `json` tags together — the tag
// is the statement of which formats apply, and doubling up muddies it.
package codec
