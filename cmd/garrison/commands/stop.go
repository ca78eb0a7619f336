// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/garrison-works/garrison/cmd/garrison/cli"
)

func stopCommand() *cli.Command {
	var connection daemonConnection

	return &cli.Command{
		Name:    "stop",
		Summary: "Shut one session down permanently",
		Description: `Disconnect the named session and stop supervising it. The session
will not reconnect; its slot stays empty until the daemon restarts.

The rest of the fleet is unaffected.`,
		Usage: "garrison stop <session> [flags]",
		Examples: []cli.Example{
			{
				Description: "Take one idle holder offline",
				Command:     "garrison stop holder-3",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stop", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
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

			if err := client.Stop(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("stopped %s\n", args[0])
			return nil
		},
	}
}
