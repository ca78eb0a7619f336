// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrison-works/garrison/lib/codec"
	"github.com/garrison-works/garrison/lib/session"
)

// Action names understood by the garrison control socket.
const (
	// ActionStatus returns a StatusReport covering the whole fleet.
	ActionStatus = "status"

	// ActionRestart forces the named session through its reconnect
	// path.
	ActionRestart = "restart"

	// ActionStop shuts the named session down permanently.
	ActionStop = "stop"

	// ActionSay sends a chat line through the named session.
	ActionSay = "say"
)

// StatusReport is the response payload for ActionStatus. Sessions
// appear in roster order.
type StatusReport struct {
	Sessions []session.Status `cbor:"sessions"`
}

// RestartRequest names the session to cycle. Reason is optional; when
// present it is recorded as the session's disconnect cause.
type RestartRequest struct {
	Session string `cbor:"session"`
	Reason  string `cbor:"reason,omitempty"`
}

// StopRequest names the session to shut down.
type StopRequest struct {
	Session string `cbor:"session"`
}

// SayRequest carries a chat line for the named session to send.
type SayRequest struct {
	Session string `cbor:"session"`
	Text    string `cbor:"text"`
}

// Supervisor is the slice of fleet behavior the control socket
// exposes. *fleet.Fleet satisfies it.
type Supervisor interface {
	Status() []session.Status
	Restart(name, reason string) error
	Stop(name string) error
	Say(ctx context.Context, name, text string) error
}

// RegisterSupervisor binds the standard fleet actions to srv. Call it
// before Serve.
func RegisterSupervisor(srv *Server, sup Supervisor) {
	srv.Handle(ActionStatus, func(ctx context.Context, raw []byte) (any, error) {
		return StatusReport{Sessions: sup.Status()}, nil
	})

	srv.Handle(ActionRestart, func(ctx context.Context, raw []byte) (any, error) {
		var request RestartRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("invalid restart request: %w", err)
		}
		if request.Session == "" {
			return nil, errors.New("missing required field: session")
		}
		return nil, sup.Restart(request.Session, request.Reason)
	})

	srv.Handle(ActionStop, func(ctx context.Context, raw []byte) (any, error) {
		var request StopRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("invalid stop request: %w", err)
		}
		if request.Session == "" {
			return nil, errors.New("missing required field: session")
		}
		return nil, sup.Stop(request.Session)
	})

	srv.Handle(ActionSay, func(ctx context.Context, raw []byte) (any, error) {
		var request SayRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("invalid say request: %w", err)
		}
		if request.Session == "" {
			return nil, errors.New("missing required field: session")
		}
		if request.Text == "" {
			return nil, errors.New("missing required field: text")
		}
		return nil, sup.Say(ctx, request.Session, request.Text)
	})
}
