// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"

	"github.com/garrison-works/garrison/lib/backoff"
	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/config"
	"github.com/garrison-works/garrison/lib/fleet"
	"github.com/garrison-works/garrison/lib/gameclient"
	"github.com/garrison-works/garrison/lib/roster"
	"github.com/garrison-works/garrison/lib/session"
)

// fleetConfig assembles the fleet from the config file's tunables and
// the roster's members. Roster entries without their own host fall
// back to the config-wide server target.
func fleetConfig(cfg *config.Config, runtime config.Runtime, fleetRoster *roster.Roster, dialer gameclient.Dialer, clk clock.Clock, logger *slog.Logger) fleet.Config {
	timing := session.Timing{
		DialTimeout:    runtime.Timing.DialTimeout,
		SpawnTimeout:   runtime.Timing.SpawnTimeout,
		MenuTimeout:    runtime.Timing.MenuTimeout,
		MenuAttempts:   runtime.Timing.MenuAttempts,
		JoinTimeout:    runtime.Timing.JoinTimeout,
		PlannedRestart: runtime.Timing.PlannedRestart,
		AttackPace:     runtime.Timing.AttackPace,
	}
	policy := backoff.Policy{
		Base:   runtime.Backoff.Base,
		Factor: runtime.Backoff.Factor,
		Cap:    runtime.Backoff.Cap,
	}

	sessions := make([]session.Config, 0, len(fleetRoster.Sessions))
	for _, entry := range fleetRoster.Sessions {
		target := gameclient.Target{Host: cfg.Server.Host, Port: cfg.Server.Port}
		if entry.Host != "" {
			target = gameclient.Target{Host: entry.Host, Port: entry.Port}
		}
		sessions = append(sessions, session.Config{
			Name:        entry.Name,
			Role:        entry.Role,
			Credentials: gameclient.Credentials{Identity: entry.Identity, Password: entry.Password},
			Target:      target,
			Commander:   fleetRoster.Commander,
			Weapon:      entry.Weapon,
			MenuSlot:    entry.MenuSlot,
			Backoff:     policy,
			Timing:      timing,
		})
	}

	return fleet.Config{
		Sessions:      sessions,
		Dialer:        dialer,
		Clock:         clk,
		Logger:        logger,
		ShutdownGrace: runtime.ShutdownGrace,
	}
}
