// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/garrison-works/garrison/lib/gameclient"
)

// handleCommanderChatLocked reacts to chat commands from the
// configured commander. Only an active combat session obeys, and only
// the commander is heard; everyone else's chat is ignored. Caller
// holds s.mu.
//
// Commands:
//
//	come  teleport-request to the commander via /tpa
func (s *Session) handleCommanderChatLocked(conn gameclient.Conn, ev gameclient.ChatEvent, logger *slog.Logger) {
	if s.role != RoleCombat || s.state != StateActive {
		return
	}
	if s.commander == "" || ev.Sender != s.commander {
		return
	}

	switch {
	case strings.EqualFold(strings.TrimSpace(ev.Text), "come"):
		logger.Info("commander summons, sending teleport request", "commander", s.commander)
		// The event reader must not block on chat I/O; send from a
		// bounded goroutine instead.
		go func() {
			defer s.recoverPanic("commander command")
			ctx, cancel := context.WithTimeout(s.ctx, s.timing.CommandTimeout)
			defer cancel()
			if err := conn.SendChat(ctx, "/tpa "+s.commander); err != nil {
				logger.Warn("teleport request failed", "error", err)
			}
		}()
	}
}
