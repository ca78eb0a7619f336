// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"time"
)

// Status is a point-in-time snapshot of one session, serialized over
// the control socket and rendered by the operator CLI.
type Status struct {
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	State       State     `json:"state"`
	Target      string    `json:"target"`
	Attempts    int       `json:"attempts"`
	AttemptID   string    `json:"attempt_id,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	ActiveSince time.Time `json:"active_since,omitzero"`
}

// Status snapshots the session's current state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Name:        s.name,
		Role:        s.role,
		State:       s.state,
		Target:      fmt.Sprintf("%s:%d", s.target.Host, s.target.Port),
		Attempts:    s.attempts,
		AttemptID:   s.attemptID,
		LastError:   s.lastErr,
		ActiveSince: s.activeSince,
	}
}
