// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package gameclient

import (
	"context"
	"sync"
)

// Call action names recorded by FakeConn.
const (
	CallSendChat         = "send_chat"
	CallActivateHeldItem = "activate_held_item"
	CallClickSlot        = "click_slot"
	CallEquip            = "equip"
	CallSetOrientation   = "set_orientation"
	CallAttack           = "attack"
)

// Call records one action invoked on a FakeConn. Name is always set;
// the remaining fields are populated per action.
type Call struct {
	Name     string
	Text     string
	Menu     Menu
	Slot     int
	Button   MouseButton
	Yaw      float64
	Pitch    float64
	EntityID int
}

// FakeDialer hands out FakeConns and records every dial. Tests script
// dial failures with QueueDialError and receive each new connection
// from Dialed.
type FakeDialer struct {
	mu          sync.Mutex
	conns       []*FakeConn
	dialErrs    []error
	failedDials int
	dialed      chan *FakeConn

	// OnDial, when set, runs after each successful dial with the new
	// connection. Tests use it to populate world state and attach
	// OnAction hooks before the supervisor sees the connection.
	OnDial func(conn *FakeConn)
}

// NewFakeDialer returns an empty FakeDialer.
func NewFakeDialer() *FakeDialer {
	return &FakeDialer{dialed: make(chan *FakeConn, 16)}
}

// QueueDialError makes the next Dial call fail with err. Multiple
// queued errors apply to successive dials in order.
func (d *FakeDialer) QueueDialError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialErrs = append(d.dialErrs, err)
}

// Dialed delivers each new connection as it is created. Buffered so
// dials never block; tests consume from it to synchronize with the
// supervisor's reconnect cycle.
func (d *FakeDialer) Dialed() <-chan *FakeConn { return d.dialed }

// Conns returns a snapshot of every connection created so far.
func (d *FakeDialer) Conns() []*FakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*FakeConn, len(d.conns))
	copy(out, d.conns)
	return out
}

// DialCount returns the number of Dial calls, including failed ones.
func (d *FakeDialer) DialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns) + d.failedDials
}

// Dial implements Dialer.
func (d *FakeDialer) Dial(ctx context.Context, creds Credentials, target Target) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	if len(d.dialErrs) > 0 {
		err := d.dialErrs[0]
		d.dialErrs = d.dialErrs[1:]
		d.failedDials++
		d.mu.Unlock()
		return nil, err
	}
	conn := NewFakeConn(creds, target)
	d.conns = append(d.conns, conn)
	hook := d.OnDial
	d.mu.Unlock()

	if hook != nil {
		hook(conn)
	}
	select {
	case d.dialed <- conn:
	default:
	}
	return conn, nil
}

// FakeConn is an inert Conn for tests. It records every action,
// returns scripted errors, and delivers events pushed with Emit. The
// zero value is not usable; construct with NewFakeConn.
type FakeConn struct {
	// Creds and Target are the dial arguments. Set at creation, read
	// only afterwards.
	Creds  Credentials
	Target Target

	// OnAction, when set, runs after each successfully recorded action
	// with the connection and the call. SimDialer uses it to react to
	// supervisor actions. Runs without internal locks held; it may
	// Emit.
	OnAction func(conn *FakeConn, call Call)

	mu          sync.Mutex
	events      chan Event
	done        chan struct{}
	emitters    sync.WaitGroup
	closed      bool
	closeReason string
	calls       []Call
	actionCh    chan Call
	actionErrs  map[string][]error
	position    Position
	entities    []Entity
	inventory   []Item
	heldSlot    int
	yaw, pitch  float64
}

// NewFakeConn returns a live FakeConn. Most tests obtain connections
// through a FakeDialer instead.
func NewFakeConn(creds Credentials, target Target) *FakeConn {
	return &FakeConn{
		Creds:      creds,
		Target:     target,
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
		actionCh:   make(chan Call, 128),
		actionErrs: make(map[string][]error),
	}
}

// Events implements Conn.
func (c *FakeConn) Events() <-chan Event { return c.events }

// Emit delivers an event to the connection's consumer. Returns false
// if the connection is closed. Blocks while the 64-event buffer is
// full and a consumer is attached; unblocks if the connection closes.
func (c *FakeConn) Emit(ev Event) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.emitters.Add(1)
	c.mu.Unlock()
	defer c.emitters.Done()

	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

// Close implements Conn. The event channel is closed before Close
// returns; in-flight Emits unblock and report failure.
func (c *FakeConn) Close(reason string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.closeReason = reason
	c.mu.Unlock()

	close(c.done)
	c.emitters.Wait()
	close(c.events)
	return nil
}

// Closed reports whether Close has been called.
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// CloseReason returns the reason passed to Close.
func (c *FakeConn) CloseReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeReason
}

// FailNext queues err for the next invocation of the named action
// (one of the Call* constants). Multiple queued errors apply to
// successive invocations in order.
func (c *FakeConn) FailNext(action string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actionErrs[action] = append(c.actionErrs[action], err)
}

// Calls returns a snapshot of every recorded action.
func (c *FakeConn) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallsNamed returns the recorded actions with the given name.
func (c *FakeConn) CallsNamed(name string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Call
	for _, call := range c.calls {
		if call.Name == name {
			out = append(out, call)
		}
	}
	return out
}

// ActionCh delivers each recorded action as it happens. Tests consume
// from it to synchronize with the supervisor instead of polling Calls.
func (c *FakeConn) ActionCh() <-chan Call { return c.actionCh }

// SetPosition sets the account position returned by Position.
func (c *FakeConn) SetPosition(p Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

// SetEntities replaces the world entity set used by NearestEntity.
func (c *FakeConn) SetEntities(entities ...Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = append([]Entity(nil), entities...)
}

// SetInventory replaces the inventory returned by Inventory.
func (c *FakeConn) SetInventory(items ...Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inventory = append([]Item(nil), items...)
}

// HeldSlot returns the slot selected by the most recent Equip.
func (c *FakeConn) HeldSlot() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.heldSlot
}

// Orientation returns the yaw and pitch set by the most recent
// SetOrientation.
func (c *FakeConn) Orientation() (yaw, pitch float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw, c.pitch
}

// record validates the connection state, applies scripted failures,
// stores the call, and runs the OnAction hook.
func (c *FakeConn) record(ctx context.Context, call Call) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnClosed
	}
	if queue := c.actionErrs[call.Name]; len(queue) > 0 {
		err := queue[0]
		c.actionErrs[call.Name] = queue[1:]
		c.mu.Unlock()
		return err
	}
	c.calls = append(c.calls, call)
	hook := c.OnAction
	c.mu.Unlock()

	select {
	case c.actionCh <- call:
	default:
	}
	if hook != nil {
		hook(c, call)
	}
	return nil
}

// SendChat implements Conn.
func (c *FakeConn) SendChat(ctx context.Context, text string) error {
	return c.record(ctx, Call{Name: CallSendChat, Text: text})
}

// ActivateHeldItem implements Conn.
func (c *FakeConn) ActivateHeldItem(ctx context.Context) error {
	return c.record(ctx, Call{Name: CallActivateHeldItem})
}

// ClickSlot implements Conn.
func (c *FakeConn) ClickSlot(ctx context.Context, menu Menu, slot int, button MouseButton) error {
	return c.record(ctx, Call{Name: CallClickSlot, Menu: menu, Slot: slot, Button: button})
}

// Position implements Conn.
func (c *FakeConn) Position(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Position{}, ErrConnClosed
	}
	return c.position, nil
}

// NearestEntity implements Conn.
func (c *FakeConn) NearestEntity(ctx context.Context, match func(Entity) bool) (Entity, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Entity{}, false, ErrConnClosed
	}

	var nearest Entity
	found := false
	best := 0.0
	for _, e := range c.entities {
		if !match(e) {
			continue
		}
		d := c.position.DistanceTo(e.Position)
		if !found || d < best {
			nearest, best, found = e, d, true
		}
	}
	return nearest, found, nil
}

// Inventory implements Conn.
func (c *FakeConn) Inventory(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrConnClosed
	}
	return append([]Item(nil), c.inventory...), nil
}

// Equip implements Conn.
func (c *FakeConn) Equip(ctx context.Context, slot int) error {
	if err := c.record(ctx, Call{Name: CallEquip, Slot: slot}); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.heldSlot = slot
	return nil
}

// SetOrientation implements Conn.
func (c *FakeConn) SetOrientation(ctx context.Context, yaw, pitch float64) error {
	if err := c.record(ctx, Call{Name: CallSetOrientation, Yaw: yaw, Pitch: pitch}); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw, c.pitch = yaw, pitch
	return nil
}

// Attack implements Conn.
func (c *FakeConn) Attack(ctx context.Context, entityID int) error {
	return c.record(ctx, Call{Name: CallAttack, EntityID: entityID})
}
