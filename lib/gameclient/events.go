// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package gameclient

// Event is one item on a connection's event stream. The concrete types
// below are the complete set; the unexported marker method keeps the
// set closed so the supervisor's dispatch switch stays exhaustive.
type Event interface {
	event()
}

// LoginEvent signals that the server accepted the account. The session
// is in the world but not yet authenticated with the server's chat
// gatekeeper.
type LoginEvent struct{}

// SpawnEvent signals that the account's avatar has spawned and world
// state is streaming.
type SpawnEvent struct{}

// ChatEvent is a player chat line.
type ChatEvent struct {
	// Sender is the speaking player's name, without decorations.
	Sender string

	// Text is the message body.
	Text string
}

// SystemMessageEvent is a server broadcast line with no player sender:
// join announcements, kick warnings, motd lines.
type SystemMessageEvent struct {
	Text string
}

// MenuOpenedEvent signals that the server opened a menu window.
type MenuOpenedEvent struct {
	Menu Menu
}

// DisconnectedEvent signals that the server ended the connection. The
// event channel closes after this event.
type DisconnectedEvent struct {
	Reason string
}

// KickedEvent signals a server-initiated eviction with a reason, such
// as an idle kick or a duplicate login. The event channel closes after
// this event.
type KickedEvent struct {
	Reason string
}

// ErrorEvent carries a transport-level failure. The event channel
// closes after this event.
type ErrorEvent struct {
	Err error
}

func (LoginEvent) event()         {}
func (SpawnEvent) event()         {}
func (ChatEvent) event()          {}
func (SystemMessageEvent) event() {}
func (MenuOpenedEvent) event()    {}
func (DisconnectedEvent) event()  {}
func (KickedEvent) event()        {}
func (ErrorEvent) event()         {}
