// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/garrison-works/garrison/cmd/garrison/cli"
	"github.com/garrison-works/garrison/lib/control"
	"github.com/garrison-works/garrison/lib/session"
)

func statusCommand() *cli.Command {
	var connection daemonConnection
	var jsonOutput bool

	return &cli.Command{
		Name:    "status",
		Summary: "Show the state of every session",
		Description: `Display a snapshot of the fleet: one row per session with its role,
connection state, target server, reconnect attempt count, and how long
it has been active.

Sessions appear in roster order. A reconnecting session shows the
error that dropped it and the attempt count driving its backoff.`,
		Usage: "garrison status [flags]",
		Examples: []cli.Example{
			{
				Description: "Show fleet status",
				Command:     "garrison status",
			},
			{
				Description: "Machine-readable output",
				Command:     "garrison status --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.BoolVar(&jsonOutput, "json", false, "print the snapshot as JSON")
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
			return runStatus(client, jsonOutput, os.Stdout)
		},
	}
}

func runStatus(client *control.Client, jsonOutput bool, w io.Writer) error {
	ctx, cancel := callContext()
	defer cancel()

	sessions, err := client.Status(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sessions)
	}

	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "SESSION\tROLE\tSTATE\tTARGET\tATTEMPTS\tUPTIME\tLAST ERROR\n")
	for _, s := range sessions {
		uptime := "-"
		if s.State == session.StateActive && !s.ActiveSince.IsZero() {
			uptime = formatDuration(time.Since(s.ActiveSince))
		}
		lastError := s.LastError
		if lastError == "" {
			lastError = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			s.Name, s.Role, s.State, s.Target, s.Attempts, uptime, lastError)
	}
	return writer.Flush()
}

// formatDuration renders a duration as a compact age string.
func formatDuration(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
