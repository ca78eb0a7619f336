// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns "prefix-N" with N drawn from a process-wide
// counter. Parallel tests that need distinguishable session names or
// chat lines use this rather than deriving identifiers from
// time.Now().
//
//	name := testutil.UniqueID("holder")  // "holder-1", "holder-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
