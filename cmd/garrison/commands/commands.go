// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the garrison operator CLI command tree.
// Every command that talks to the daemon shares the --socket flag via
// daemonConnection, so the socket resolves the same way everywhere:
// flag, then GARRISON_CONFIG, then the built-in default.
package commands

import (
	"fmt"

	"github.com/garrison-works/garrison/cmd/garrison/cli"
	"github.com/garrison-works/garrison/lib/version"
)

// Root builds and returns the complete garrison CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "garrison",
		Description: `Garrison: supervise a fleet of automated game sessions.

The garrison-daemon holds the sessions; this CLI inspects and steers
them over the daemon's control socket.`,
		Subcommands: []*cli.Command{
			statusCommand(),
			watchCommand(),
			restartCommand(),
			stopCommand(),
			sayCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("garrison %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Show the state of every session",
				Command:     "garrison status",
			},
			{
				Description: "Watch the fleet live",
				Command:     "garrison watch",
			},
			{
				Description: "Force the combat session through a reconnect",
				Command:     "garrison restart combat-1 --reason 'wrong world'",
			},
			{
				Description: "Send a chat line through an idle holder",
				Command:     "garrison say holder-1 '/spawn'",
			},
		},
	}
}
