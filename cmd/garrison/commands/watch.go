// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/garrison-works/garrison/cmd/garrison/cli"
	"github.com/garrison-works/garrison/lib/watchui"
)

// watchInterval is how often the watch view polls the daemon.
const watchInterval = time.Second

func watchCommand() *cli.Command {
	var connection daemonConnection

	return &cli.Command{
		Name:    "watch",
		Summary: "Live fleet view",
		Description: `Open a full-screen view of the fleet that refreshes every second:
one row per session with its state, uptime, and reconnect progress.

Press r to refresh immediately, q to quit.`,
		Usage: "garrison watch [flags]",
		Examples: []cli.Example{
			{
				Description: "Watch the fleet",
				Command:     "garrison watch",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("watch", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			client, err := connection.connect()
			if err != nil {
				return err
			}

			model := watchui.New(client, watchInterval)
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
}
