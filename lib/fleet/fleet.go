// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/gameclient"
	"github.com/garrison-works/garrison/lib/session"
)

// DefaultShutdownGrace bounds how long Shutdown waits for sessions to
// tear down before giving up on them.
const DefaultShutdownGrace = 5 * time.Second

// Config describes a fleet of supervised sessions.
type Config struct {
	// Sessions are the member configurations, in roster order. Exactly
	// one must carry the combat role.
	Sessions []session.Config

	// Dialer is the default dialer for sessions that do not set one.
	Dialer gameclient.Dialer

	// Clock is the default clock for sessions that do not set one, and
	// drives the shutdown grace period. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is the default logger for sessions that do not set one.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// ShutdownGrace bounds Shutdown's wait per fleet, not per session.
	// Defaults to DefaultShutdownGrace.
	ShutdownGrace time.Duration
}

// Fleet supervises a fixed set of sessions as one unit: they start
// together, shut down together, and expose their status through one
// snapshot for the control plane.
type Fleet struct {
	logger *slog.Logger
	clock  clock.Clock
	grace  time.Duration

	// sessions and order are fixed at construction.
	sessions map[string]*session.Session
	order    []string

	mu       sync.Mutex
	started  bool
	shutdown bool
}

// New validates the fleet configuration and constructs every member
// session. Nothing connects until Start or Run.
func New(cfg Config) (*Fleet, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = DefaultShutdownGrace
	}
	if len(cfg.Sessions) == 0 {
		return nil, errors.New("fleet needs at least one session")
	}

	var errs []error
	combat := 0
	sessions := make(map[string]*session.Session, len(cfg.Sessions))
	order := make([]string, 0, len(cfg.Sessions))
	for _, sc := range cfg.Sessions {
		if _, dup := sessions[sc.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate session name %q", sc.Name))
			continue
		}
		if sc.Role == session.RoleCombat {
			combat++
		}
		if sc.Dialer == nil {
			sc.Dialer = cfg.Dialer
		}
		if sc.Clock == nil {
			sc.Clock = cfg.Clock
		}
		if sc.Logger == nil {
			sc.Logger = cfg.Logger
		}
		s, err := session.New(sc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sessions[sc.Name] = s
		order = append(order, sc.Name)
	}
	if combat != 1 {
		errs = append(errs, fmt.Errorf("fleet needs exactly one combat session, found %d", combat))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Fleet{
		logger:   cfg.Logger,
		clock:    cfg.Clock,
		grace:    cfg.ShutdownGrace,
		sessions: sessions,
		order:    order,
	}, nil
}

// Start launches every session. Each one connects and supervises
// itself independently from here on.
func (f *Fleet) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shutdown {
		return errors.New("fleet is shut down")
	}
	if f.started {
		return errors.New("fleet already started")
	}
	f.started = true

	f.logger.Info("starting fleet", "sessions", len(f.order))
	for _, name := range f.order {
		f.sessions[name].Start(ctx)
	}
	return nil
}

// Run starts the fleet and blocks until ctx is cancelled, then shuts
// everything down gracefully.
func (f *Fleet) Run(ctx context.Context) error {
	if err := f.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	f.Shutdown()
	return nil
}

// Shutdown terminates every session and waits, up to the configured
// grace period, for their teardowns to finish. Sessions still busy
// when the grace expires are abandoned with a warning. Idempotent;
// only the first call waits.
func (f *Fleet) Shutdown() {
	f.mu.Lock()
	if f.shutdown {
		f.mu.Unlock()
		return
	}
	f.shutdown = true
	f.mu.Unlock()

	f.logger.Info("fleet shutting down", "sessions", len(f.order), "grace", f.grace)
	for _, name := range f.order {
		f.sessions[name].Shutdown()
	}

	timeout := f.clock.After(f.grace)
	expired := false
	for _, name := range f.order {
		s := f.sessions[name]
		select {
		case <-s.Done():
			continue
		default:
		}
		if expired {
			f.logger.Warn("abandoning session teardown", "session", name)
			continue
		}
		select {
		case <-s.Done():
		case <-timeout:
			expired = true
			f.logger.Warn("shutdown grace period elapsed", "session", name)
		}
	}
	f.logger.Info("fleet shutdown complete")
}

// Status snapshots every session in roster order.
func (f *Fleet) Status() []session.Status {
	out := make([]session.Status, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.sessions[name].Status())
	}
	return out
}

// Restart forces the named session through its reconnect path.
func (f *Fleet) Restart(name, reason string) error {
	s, err := f.byName(name)
	if err != nil {
		return err
	}
	return s.Restart(reason)
}

// Stop shuts the named session down permanently. The rest of the
// fleet keeps running.
func (f *Fleet) Stop(name string) error {
	s, err := f.byName(name)
	if err != nil {
		return err
	}
	s.Shutdown()
	return nil
}

// Say sends a chat line through the named session.
func (f *Fleet) Say(ctx context.Context, name, text string) error {
	s, err := f.byName(name)
	if err != nil {
		return err
	}
	return s.Say(ctx, text)
}

func (f *Fleet) byName(name string) (*session.Session, error) {
	s, ok := f.sessions[name]
	if !ok {
		return nil, fmt.Errorf("unknown session %q", name)
	}
	return s, nil
}
