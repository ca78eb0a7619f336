// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/garrison-works/garrison/cmd/garrison/cli"
)

func sayCommand() *cli.Command {
	var connection daemonConnection

	return &cli.Command{
		Name:    "say",
		Summary: "Send a chat line through a session",
		Description: `Send a chat line through the named session's game connection. The
session must be active; a connecting or reconnecting session has no
chat channel to write to.

Lines starting with / are commands on the server, so this doubles as
a way to issue server commands through a session.`,
		Usage: "garrison say <session> <text...> [flags]",
		Examples: []cli.Example{
			{
				Description: "Say hello through the combat session",
				Command:     "garrison say combat-1 hello",
			},
			{
				Description: "Issue a server command",
				Command:     "garrison say holder-1 '/spawn'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("say", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: garrison say <session> <text...>")
			}
			client, err := connection.connect()
			if err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			return client.Say(ctx, args[0], strings.Join(args[1:], " "))
		},
	}
}
