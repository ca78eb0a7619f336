// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package backoff computes reconnect delays for session supervision.
//
// The policy is a pure function from attempt number to delay, so the
// supervisor owns all state (the attempt counter) and all waiting (via
// clock.Clock). Delays grow geometrically from Base by Factor per
// attempt and saturate at Cap. A session that reconnects successfully
// resets its attempt counter, returning to Base for the next failure.
package backoff

import (
	"math"
	"time"
)

// Default policy values. A freshly failed session retries after
// DefaultBase; a session that has been failing for a while settles at
// one attempt per DefaultCap.
const (
	DefaultBase   = 2 * time.Second
	DefaultFactor = 1.5
	DefaultCap    = 60 * time.Second
)

// Policy describes a saturating geometric backoff. The zero value is
// usable: zero or negative fields fall back to the package defaults.
type Policy struct {
	// Base is the delay before the first retry.
	Base time.Duration

	// Factor multiplies the delay once per attempt.
	Factor float64

	// Cap is the saturation ceiling. No delay exceeds it.
	Cap time.Duration
}

// Default returns the standard reconnect policy.
func Default() Policy {
	return Policy{Base: DefaultBase, Factor: DefaultFactor, Cap: DefaultCap}
}

// Delay returns the wait before retry number attempt. Attempt 0 is the
// first retry and waits Base. Negative attempts are treated as 0.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := p.Base
	if base <= 0 {
		base = DefaultBase
	}
	factor := p.Factor
	if factor <= 0 {
		factor = DefaultFactor
	}
	limit := p.Cap
	if limit <= 0 {
		limit = DefaultCap
	}
	if base >= limit {
		return limit
	}

	delay := float64(base) * math.Pow(factor, float64(attempt))
	// Saturate before converting: large attempt counts overflow
	// time.Duration through the float path.
	if delay >= float64(limit) || math.IsInf(delay, 1) {
		return limit
	}
	return time.Duration(delay)
}
