// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
)

// Fatal prints "error: err" on stderr and exits 1. It belongs in
// main(), handling errors returned from run() before the structured
// logger exists.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
