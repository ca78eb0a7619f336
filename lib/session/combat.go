// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/gameclient"
)

// startCombatLocked launches the combat task for an active combat
// session. Caller holds s.mu.
func (s *Session) startCombatLocked(conn gameclient.Conn, logger *slog.Logger) {
	cctx, cancel := context.WithCancel(s.ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}
	s.combat = t
	go func() {
		defer close(t.done)
		defer s.recoverPanic("combat")
		s.runCombat(cctx, conn, logger)
	}()
}

// runCombat is the combat loop: equip the configured weapon once, then
// scan, aim, and attack until cancelled. Individual step failures pause
// and retry; the loop never terminates the session on its own.
func (s *Session) runCombat(ctx context.Context, conn gameclient.Conn, logger *slog.Logger) {
	s.equipWeapon(ctx, conn, logger)
	logger.Info("combat loop running", "radius", s.engageRadius)

	for {
		if ctx.Err() != nil {
			return
		}
		attacked, err := s.combatStep(ctx, conn)

		var pause time.Duration
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			logger.Debug("combat step failed", "error", err)
			pause = s.timing.ErrorPause
		case attacked:
			pause = s.timing.AttackPace
		default:
			pause = s.timing.IdlePoll
		}
		if clock.SleepContext(ctx, s.clock, pause) != nil {
			return
		}
	}
}

// combatStep performs one scan-aim-attack cycle. It reports whether an
// attack landed so the loop can pace attacks slower than idle scans.
func (s *Session) combatStep(ctx context.Context, conn gameclient.Conn) (bool, error) {
	pos, err := conn.Position(ctx)
	if err != nil {
		return false, fmt.Errorf("read position: %w", err)
	}
	target, ok, err := conn.NearestEntity(ctx, gameclient.IsHostile)
	if err != nil {
		return false, fmt.Errorf("scan entities: %w", err)
	}
	if !ok || pos.DistanceTo(target.Position) > s.engageRadius {
		return false, nil
	}

	yaw, pitch := AimAngles(pos, target)
	if err := conn.SetOrientation(ctx, yaw, pitch); err != nil {
		return false, fmt.Errorf("aim at entity %d: %w", target.ID, err)
	}
	if err := conn.Attack(ctx, target.ID); err != nil {
		return false, fmt.Errorf("attack entity %d: %w", target.ID, err)
	}
	return true, nil
}

// equipWeapon equips the first inventory item whose name contains the
// configured weapon fragment, case-insensitively. A missing weapon or
// failed equip leaves the session fighting with whatever is held.
func (s *Session) equipWeapon(ctx context.Context, conn gameclient.Conn, logger *slog.Logger) {
	if s.weapon == "" {
		return
	}
	items, err := conn.Inventory(ctx)
	if err != nil {
		logger.Warn("inventory read failed, fighting with held item", "error", err)
		return
	}
	want := strings.ToLower(s.weapon)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), want) {
			if err := conn.Equip(ctx, item.Slot); err != nil {
				logger.Warn("weapon equip failed, fighting with held item",
					"item", item.Name, "error", err)
				return
			}
			logger.Info("weapon equipped", "item", item.Name, "slot", item.Slot)
			return
		}
	}
	logger.Warn("weapon not in inventory, fighting with held item", "weapon", s.weapon)
}
