// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// garrison is the operator CLI for the garrison daemon: fleet status,
// live watch, and per-session restart/stop/say over the control
// socket.
package main

import (
	"fmt"
	"os"

	"github.com/garrison-works/garrison/cmd/garrison/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError with
		// the desired exit code. Don't print a redundant "error:" line
		// for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
