// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/gameclient"
)

// Handshake failure modes. Each aborts the attempt and feeds the
// reconnect path; none of them is terminal.
var (
	ErrSpawnTimeout = errors.New("timed out waiting for spawn")
	ErrMenuTimeout  = errors.New("navigation menu did not open")
	ErrJoinTimeout  = errors.New("timed out waiting for join confirmation")
)

// runHandshake walks a freshly logged-in connection into the target
// world: authenticate, wait for the lobby spawn, open the navigation
// menu, click the world slot, and wait for the server's join
// broadcast. Any step failing or timing out fails the whole handshake.
func (s *Session) runHandshake(ctx context.Context, conn gameclient.Conn, logger *slog.Logger) error {
	if s.creds.Password != "" {
		if err := conn.SendChat(ctx, "/login "+s.creds.Password); err != nil {
			return fmt.Errorf("send login command: %w", err)
		}
	}

	if err := s.awaitSpawn(ctx); err != nil {
		return err
	}
	logger.Info("spawned in lobby")

	// Servers reject menu interactions fired immediately after spawn;
	// give the client state a moment to settle.
	if err := clock.SleepContext(ctx, s.clock, s.timing.SpawnSettle); err != nil {
		return err
	}

	menu, err := s.openMenu(ctx, conn, logger)
	if err != nil {
		return err
	}
	logger.Info("navigation menu open", "menu", menu.Title, "slots", menu.Slots)

	if err := clock.SleepContext(ctx, s.clock, s.timing.MenuStabilize); err != nil {
		return err
	}

	if err := conn.ClickSlot(ctx, menu, s.menuSlot, gameclient.MouseLeft); err != nil {
		return fmt.Errorf("click menu slot %d: %w", s.menuSlot, err)
	}

	if err := s.awaitJoin(ctx); err != nil {
		return err
	}
	logger.Info("join confirmed", "identity", s.creds.Identity)

	return clock.SleepContext(ctx, s.clock, s.timing.PostJoinSettle)
}

// awaitSpawn blocks until the spawn event arrives. A spawn observed
// before the wait began counts; the event reader latches it.
func (s *Session) awaitSpawn(ctx context.Context) error {
	s.mu.Lock()
	if s.spawned {
		s.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	s.spawnWaiter = ch
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-s.clock.After(s.timing.SpawnTimeout):
		s.clearSpawnWaiter(ch)
		return ErrSpawnTimeout
	case <-ctx.Done():
		s.clearSpawnWaiter(ch)
		return ctx.Err()
	}
}

// openMenu activates the held navigation item and waits for the menu
// to open, retrying a bounded number of times. The waiter is armed
// before the activation so a menu that opens instantly is not missed.
func (s *Session) openMenu(ctx context.Context, conn gameclient.Conn, logger *slog.Logger) (gameclient.Menu, error) {
	for attempt := 1; attempt <= s.timing.MenuAttempts; attempt++ {
		ch := make(chan gameclient.Menu, 1)
		s.mu.Lock()
		s.menuWaiter = ch
		s.mu.Unlock()

		if err := conn.ActivateHeldItem(ctx); err != nil {
			s.clearMenuWaiter(ch)
			return gameclient.Menu{}, fmt.Errorf("activate menu item: %w", err)
		}

		select {
		case menu := <-ch:
			return menu, nil
		case <-s.clock.After(s.timing.MenuTimeout):
			s.clearMenuWaiter(ch)
			logger.Info("menu did not open, retrying",
				"attempt", attempt, "max_attempts", s.timing.MenuAttempts)
		case <-ctx.Done():
			s.clearMenuWaiter(ch)
			return gameclient.Menu{}, ctx.Err()
		}

		if attempt < s.timing.MenuAttempts {
			if err := clock.SleepContext(ctx, s.clock, s.timing.MenuRetryDelay); err != nil {
				return gameclient.Menu{}, err
			}
		}
	}
	return gameclient.Menu{}, ErrMenuTimeout
}

// awaitJoin blocks until the server broadcasts this identity's join
// message. A broadcast observed before the wait began counts.
func (s *Session) awaitJoin(ctx context.Context) error {
	s.mu.Lock()
	if s.join.confirmed {
		s.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	s.join.waiter = ch
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-s.clock.After(s.timing.JoinTimeout):
		s.clearJoinWaiter(ch)
		return ErrJoinTimeout
	case <-ctx.Done():
		s.clearJoinWaiter(ch)
		return ctx.Err()
	}
}

// checkJoinLocked latches join confirmation when a broadcast matches
// this session's identity. Caller holds s.mu.
func (s *Session) checkJoinLocked(text string) {
	if s.join.confirmed || !MatchesJoin(text, s.creds.Identity) {
		return
	}
	s.join.confirmed = true
	if s.join.waiter != nil {
		close(s.join.waiter)
		s.join.waiter = nil
	}
}

// The clear helpers compare channel identity so a timed-out waiter
// never clobbers a waiter armed by a later handshake.

func (s *Session) clearSpawnWaiter(ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spawnWaiter == ch {
		s.spawnWaiter = nil
	}
}

func (s *Session) clearMenuWaiter(ch chan gameclient.Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.menuWaiter == ch {
		s.menuWaiter = nil
	}
}

func (s *Session) clearJoinWaiter(ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.join.waiter == ch {
		s.join.waiter = nil
	}
}
