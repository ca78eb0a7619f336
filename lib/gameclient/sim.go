// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package gameclient

import (
	"context"
	"time"

	"github.com/garrison-works/garrison/lib/clock"
)

// SimConfig shapes the behavior of a simulated server. The zero value
// is usable; delays and the menu get sensible defaults.
type SimConfig struct {
	// LoginDelay is the time between dial and LoginEvent.
	LoginDelay time.Duration

	// SpawnDelay is the time between LoginEvent and SpawnEvent.
	SpawnDelay time.Duration

	// MenuDelay is the time between a held-item activation and the
	// MenuOpenedEvent it triggers.
	MenuDelay time.Duration

	// JoinDelay is the time between a menu slot click and the join
	// broadcast it triggers.
	JoinDelay time.Duration

	// JoinTier is an optional rank prefix on the join broadcast, such
	// as "[VIP] ".
	JoinTier string

	// Menu is the window the simulated server opens. Defaults to a
	// 27-slot "Game Menu".
	Menu Menu

	// Entities populates world state on each connection.
	Entities []Entity

	// Inventory populates the account inventory on each connection.
	Inventory []Item
}

func (c SimConfig) withDefaults() SimConfig {
	if c.LoginDelay <= 0 {
		c.LoginDelay = 20 * time.Millisecond
	}
	if c.SpawnDelay <= 0 {
		c.SpawnDelay = 30 * time.Millisecond
	}
	if c.MenuDelay <= 0 {
		c.MenuDelay = 40 * time.Millisecond
	}
	if c.JoinDelay <= 0 {
		c.JoinDelay = 50 * time.Millisecond
	}
	if c.Menu == (Menu{}) {
		c.Menu = Menu{ID: 1, Title: "Game Menu", Slots: 27}
	}
	return c
}

// SimDialer is a Dialer backed by a cooperative simulated server: it
// accepts every login, spawns the avatar, opens its menu when the held
// item is activated, and broadcasts the join line after a slot click.
// The daemon's --simulate flag runs the fleet against it, and the
// end-to-end tests drive it on a fake clock.
type SimDialer struct {
	clock clock.Clock
	cfg   SimConfig
}

// NewSimDialer returns a SimDialer whose delays run on clk.
func NewSimDialer(clk clock.Clock, cfg SimConfig) *SimDialer {
	return &SimDialer{clock: clk, cfg: cfg.withDefaults()}
}

// Dial implements Dialer. The connection logs in and spawns on its own
// after the configured delays.
func (d *SimDialer) Dial(ctx context.Context, creds Credentials, target Target) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn := NewFakeConn(creds, target)
	conn.SetEntities(d.cfg.Entities...)
	conn.SetInventory(d.cfg.Inventory...)
	conn.OnAction = d.react

	d.clock.AfterFunc(d.cfg.LoginDelay, func() {
		conn.Emit(LoginEvent{})
	})
	d.clock.AfterFunc(d.cfg.LoginDelay+d.cfg.SpawnDelay, func() {
		conn.Emit(SpawnEvent{})
	})
	return conn, nil
}

// react schedules the server's response to supervisor actions.
func (d *SimDialer) react(conn *FakeConn, call Call) {
	switch call.Name {
	case CallActivateHeldItem:
		d.clock.AfterFunc(d.cfg.MenuDelay, func() {
			conn.Emit(MenuOpenedEvent{Menu: d.cfg.Menu})
		})
	case CallClickSlot:
		text := d.cfg.JoinTier + conn.Creds.Identity + " joined the game"
		d.clock.AfterFunc(d.cfg.JoinDelay, func() {
			conn.Emit(SystemMessageEvent{Text: text})
		})
	}
}
