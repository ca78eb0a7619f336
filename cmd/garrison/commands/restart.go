// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/garrison-works/garrison/cmd/garrison/cli"
)

func restartCommand() *cli.Command {
	var connection daemonConnection
	var reason string

	return &cli.Command{
		Name:    "restart",
		Summary: "Force a session through a fresh reconnect",
		Description: `Tear down the named session's connection and schedule an immediate
reconnect. The session walks its normal handshake on the way back:
spawn, menu, slot, join confirmation.

Useful when a session is wedged on the wrong world or holding a stale
connection the daemon has not noticed yet.`,
		Usage: "garrison restart <session> [flags]",
		Examples: []cli.Example{
			{
				Description: "Restart the combat session",
				Command:     "garrison restart combat-1",
			},
			{
				Description: "Record why in the session's status",
				Command:     "garrison restart holder-2 --reason 'stuck in lobby'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("restart", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.StringVar(&reason, "reason", "", "note recorded as the disconnect cause")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one session name, got %d arguments", len(args))
			}
			client, err := connection.connect()
			if err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			if err := client.Restart(ctx, args[0], reason); err != nil {
				return err
			}
			fmt.Printf("restart scheduled for %s\n", args[0])
			return nil
		},
	}
}
