// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package gameclient

import (
	"context"
	"errors"
	"math"
)

// ErrConnClosed is returned by Conn actions invoked after the
// connection has been closed or has died.
var ErrConnClosed = errors.New("gameclient: connection closed")

// Credentials identify one automated account. Password may be empty
// for servers that do not require chat-command authentication.
type Credentials struct {
	// Identity is the account name as it appears in server broadcasts.
	Identity string

	// Password is the chat-command authentication secret.
	Password string
}

// Target is a game server endpoint.
type Target struct {
	Host string
	Port int
}

// Position is a point in world space. Y is the vertical axis.
type Position struct {
	X, Y, Z float64
}

// DistanceTo returns the Euclidean distance between two points.
func (p Position) DistanceTo(other Position) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	dz := other.Z - p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// EntityKind classifies world entities for targeting decisions.
type EntityKind string

const (
	KindHostile EntityKind = "hostile"
	KindPassive EntityKind = "passive"
	KindPlayer  EntityKind = "player"
	KindObject  EntityKind = "object"
)

// Entity is a snapshot of one world entity.
type Entity struct {
	// ID is the server-assigned entity identifier, valid for the
	// lifetime of the connection.
	ID int

	Kind EntityKind
	Name string

	// Position is the entity's feet-level center.
	Position Position

	// Height is the entity's bounding box height. Attack aim targets
	// the vertical midpoint.
	Height float64
}

// IsHostile reports whether e is a valid combat target.
func IsHostile(e Entity) bool { return e.Kind == KindHostile }

// Item is one inventory stack.
type Item struct {
	// Slot is the inventory slot index holding the item.
	Slot int

	// Name is the item's display name.
	Name string
}

// Menu identifies an open server-side menu window. Click operations
// must reference the menu they target so that a click cannot land in a
// window that has since been replaced.
type Menu struct {
	// ID is the server-assigned window identifier.
	ID int

	// Title is the window's display title.
	Title string

	// Slots is the number of clickable slots.
	Slots int
}

// MouseButton selects which button a slot click uses.
type MouseButton int

const (
	MouseLeft  MouseButton = 0
	MouseRight MouseButton = 1
)

// Dialer establishes game server connections. Implementations carry
// the protocol adapter; garrison holds no protocol logic.
type Dialer interface {
	// Dial connects and begins authentication with the server. The
	// returned Conn is live: its event stream starts immediately and
	// delivers LoginEvent once the server accepts the account.
	Dial(ctx context.Context, creds Credentials, target Target) (Conn, error)
}

// Conn is one live connection to a game server.
//
// Events returns the connection's single ordered event stream. The
// channel is closed when the connection dies or Close is called; no
// events are delivered after that. Actions return ErrConnClosed once
// the connection is gone.
type Conn interface {
	// Events returns the event stream. The same channel is returned on
	// every call.
	Events() <-chan Event

	// SendChat sends a chat line (or slash command) to the server.
	SendChat(ctx context.Context, text string) error

	// ActivateHeldItem uses the currently held item, the gesture that
	// asks the server to open its navigation menu.
	ActivateHeldItem(ctx context.Context) error

	// ClickSlot clicks a slot in an open menu.
	ClickSlot(ctx context.Context, menu Menu, slot int, button MouseButton) error

	// Position returns the connected account's current position.
	Position(ctx context.Context) (Position, error)

	// NearestEntity returns the entity nearest to the account among
	// those matching the predicate. ok is false when nothing matches.
	NearestEntity(ctx context.Context, match func(Entity) bool) (entity Entity, ok bool, err error)

	// Inventory returns the account's current inventory.
	Inventory(ctx context.Context) ([]Item, error)

	// Equip makes the given inventory slot the held item.
	Equip(ctx context.Context, slot int) error

	// SetOrientation points the account's view. Yaw and pitch are in
	// degrees; positive pitch looks up. The change applies immediately,
	// with no interpolation.
	SetOrientation(ctx context.Context, yaw, pitch float64) error

	// Attack swings at the entity with the given ID.
	Attack(ctx context.Context, entityID int) error

	// Close releases the connection, sending the reason to the server
	// when the protocol supports it. Close is idempotent. The event
	// channel is closed before Close returns.
	Close(reason string) error
}
