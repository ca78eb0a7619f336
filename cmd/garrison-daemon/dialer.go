// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"

	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/gameclient"
)

// newProtocolDialer builds the game protocol adapter for real runs.
// The stock tree ships none: garrison supervises sessions but never
// speaks the wire protocol itself. Embedding builds add a file to
// this package that sets the variable from init().
var newProtocolDialer func(clk clock.Clock) (gameclient.Dialer, error)

// buildDialer selects the connection backend: the built-in simulated
// server under --simulate, otherwise the embedded protocol adapter.
func buildDialer(simulate bool, clk clock.Clock) (gameclient.Dialer, error) {
	if simulate {
		return gameclient.NewSimDialer(clk, simServer()), nil
	}
	if newProtocolDialer == nil {
		return nil, errors.New("this build carries no game protocol adapter; run with --simulate or link an adapter (see dialer.go)")
	}
	return newProtocolDialer(clk)
}

// simServer is the world served under --simulate: a weapon in the
// inventory and a few hostiles near spawn, so a combat session has
// something to equip and fight.
func simServer() gameclient.SimConfig {
	return gameclient.SimConfig{
		Inventory: []gameclient.Item{
			{Slot: 0, Name: "Iron Sword"},
			{Slot: 1, Name: "Bread"},
		},
		Entities: []gameclient.Entity{
			{ID: 101, Kind: gameclient.KindHostile, Name: "zombie", Position: gameclient.Position{X: 3, Y: 0, Z: 2}, Height: 1.95},
			{ID: 102, Kind: gameclient.KindHostile, Name: "skeleton", Position: gameclient.Position{X: -4, Y: 0, Z: 3}, Height: 1.99},
			{ID: 103, Kind: gameclient.KindPassive, Name: "sheep", Position: gameclient.Position{X: 1, Y: 0, Z: 1}, Height: 1.3},
		},
	}
}
