// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garrison-works/garrison/lib/backoff"
	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/gameclient"
)

// Config describes one supervised session.
type Config struct {
	// Name is the roster name, used in logs and the control plane.
	Name string

	// Role selects the in-game behavior once active.
	Role Role

	// Credentials is the game account. Identity doubles as the token
	// matched in join broadcasts.
	Credentials gameclient.Credentials

	// Target is the server endpoint.
	Target gameclient.Target

	// Commander is the player allowed to issue chat commands to a
	// combat session. Ignored for idle sessions.
	Commander string

	// Weapon is an inventory name fragment the combat session equips
	// before fighting. Case-insensitive substring match; a missing
	// weapon is non-fatal. Ignored for idle sessions.
	Weapon string

	// MenuSlot is the server menu slot that joins the target world.
	// Defaults to 13, the center slot of the navigation menu.
	MenuSlot int

	// EngageRadius is the maximum distance, in blocks, at which the
	// combat session attacks. Defaults to 6.
	EngageRadius float64

	// Dialer establishes connections.
	Dialer gameclient.Dialer

	// Clock drives all supervisor timing. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives structured lifecycle logs. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Backoff shapes reconnect delays. The zero value uses the
	// package defaults.
	Backoff backoff.Policy

	// Timing overrides individual supervisor delays. Zero fields use
	// the defaults.
	Timing Timing
}

func (c Config) validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !c.Role.Valid() {
		errs = append(errs, fmt.Errorf("role %q is not valid", c.Role))
	}
	if c.Credentials.Identity == "" {
		errs = append(errs, errors.New("credentials identity is required"))
	}
	if c.Dialer == nil {
		errs = append(errs, errors.New("dialer is required"))
	}
	return errors.Join(errs...)
}

// task is a cancellable session goroutine: the handshake sequencer or
// the combat loop. done closes when the goroutine exits.
type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// joinState tracks join confirmation for the current connection.
type joinState struct {
	// confirmed latches once a join broadcast matches.
	confirmed bool

	// waiter, when non-nil, is closed on confirmation. At most one
	// listener exists; a duplicate await resolves immediately instead
	// of racing a second listener.
	waiter chan struct{}
}

// Session supervises one game connection through its full lifecycle:
// connect, handshake into the target world, run role behavior, and
// reconnect with backoff on any failure.
//
// All state transitions are serialized under one mutex; no transition
// ever blocks on I/O or timers. Waiting happens in the dial goroutine,
// the handshake task, the combat task, and armed timers, each of which
// re-enters the state machine through a guarded method that checks the
// session is still in the state it left.
type Session struct {
	name         string
	role         Role
	creds        gameclient.Credentials
	target       gameclient.Target
	commander    string
	weapon       string
	menuSlot     int
	engageRadius float64

	dialer gameclient.Dialer
	clock  clock.Clock
	logger *slog.Logger
	policy backoff.Policy
	timing Timing
	timers *timerSet

	// ctx is the session lifetime, set once by Start and cancelled by
	// Shutdown (or the parent).
	ctx    context.Context
	cancel context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once

	mu          sync.Mutex
	state       State
	started     bool
	attempts    int
	attemptID   string
	lastErr     string
	activeSince time.Time
	conn        gameclient.Conn
	readerDone  chan struct{}
	teardown    chan struct{}
	spawned     bool
	spawnWaiter chan struct{}
	menuWaiter  chan gameclient.Menu
	join        joinState
	handshake   *task
	combat      *task
}

// New builds a Session in the idle state. Call Start to begin
// supervision.
func New(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("session %q config: %w", cfg.Name, err)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MenuSlot <= 0 {
		cfg.MenuSlot = 13
	}
	if cfg.EngageRadius <= 0 {
		cfg.EngageRadius = 6.0
	}

	return &Session{
		name:         cfg.Name,
		role:         cfg.Role,
		creds:        cfg.Credentials,
		target:       cfg.Target,
		commander:    cfg.Commander,
		weapon:       cfg.Weapon,
		menuSlot:     cfg.MenuSlot,
		engageRadius: cfg.EngageRadius,
		dialer:       cfg.Dialer,
		clock:        cfg.Clock,
		logger:       cfg.Logger.With("session", cfg.Name, "role", string(cfg.Role)),
		policy:       cfg.Backoff,
		timing:       cfg.Timing.withDefaults(),
		timers:       newTimerSet(cfg.Clock),
		done:         make(chan struct{}),
		state:        StateIdle,
	}, nil
}

// Name returns the roster name.
func (s *Session) Name() string { return s.name }

// Role returns the session's role.
func (s *Session) Role() Role { return s.role }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once Shutdown has finished tearing the session down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Start begins supervision: the session dials, handshakes, and keeps
// itself connected until Shutdown. Cancelling ctx aborts in-flight
// work, but orderly teardown still requires Shutdown. Start is a
// no-op after the first call.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.state == StateShutdown {
		s.logger.Info("duplicate start ignored", "state", s.state)
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.beginAttemptLocked()
}

// beginAttemptLocked moves the session into connecting and launches
// the dial goroutine. Caller holds s.mu.
func (s *Session) beginAttemptLocked() {
	switch s.state {
	case StateConnecting, StateHandshaking, StateActive:
		s.logger.Info("connect requested while a connection is live, ignoring",
			"state", s.state)
		return
	case StateShutdown:
		return
	}

	s.state = StateConnecting
	s.attemptID = uuid.NewString()
	go s.dial(s.attemptID, s.teardown)
}

// dial performs one connection attempt. It waits for the previous
// connection's teardown to finish so that a new attempt never overlaps
// a dying connection's listeners.
func (s *Session) dial(attemptID string, teardown chan struct{}) {
	defer s.recoverPanic("dial")

	logger := s.logger.With("attempt_id", attemptID)
	if teardown != nil {
		select {
		case <-teardown:
		case <-s.ctx.Done():
			return
		}
	}

	logger.Info("connecting", "host", s.target.Host, "port", s.target.Port)
	dialCtx, cancel := context.WithTimeout(s.ctx, s.timing.DialTimeout)
	conn, err := s.dialer.Dial(dialCtx, s.creds, s.target)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnecting || s.attemptID != attemptID {
		// A restart or shutdown superseded this attempt mid-dial.
		if err == nil {
			go conn.Close("superseded connection attempt")
		}
		return
	}
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.scheduleReconnectLocked("dial failed", err)
		return
	}

	s.conn = conn
	s.spawned = false
	s.join = joinState{}
	readerDone := make(chan struct{})
	s.readerDone = readerDone
	go s.readEvents(conn, readerDone, logger)
	logger.Info("connected, awaiting login acceptance")
}

// readEvents is the sole consumer of a connection's event stream. It
// dispatches every event into the state machine and detects streams
// that end without a disconnect event.
func (s *Session) readEvents(conn gameclient.Conn, done chan struct{}, logger *slog.Logger) {
	defer close(done)
	defer s.recoverPanic("event reader")

	for ev := range conn.Events() {
		s.handleEvent(conn, ev, logger)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == conn && s.state != StateShutdown {
		// The stream ended without a disconnect event: the transport
		// died silently.
		s.scheduleReconnectLocked("event stream ended", nil)
	}
}

// handleEvent routes one connection event into the state machine.
// Events from a superseded connection are dropped.
func (s *Session) handleEvent(conn gameclient.Conn, ev gameclient.Event, logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn || s.state == StateShutdown {
		return
	}

	switch ev := ev.(type) {
	case gameclient.LoginEvent:
		s.onLoginLocked(conn, logger)

	case gameclient.SpawnEvent:
		s.spawned = true
		if s.spawnWaiter != nil {
			close(s.spawnWaiter)
			s.spawnWaiter = nil
		}

	case gameclient.MenuOpenedEvent:
		if s.menuWaiter != nil {
			// Buffered with capacity 1 and handed to exactly one
			// receiver, so this send never blocks.
			s.menuWaiter <- ev.Menu
			s.menuWaiter = nil
		} else {
			logger.Debug("unsolicited menu ignored", "menu", ev.Menu.Title)
		}

	case gameclient.ChatEvent:
		s.checkJoinLocked(ev.Text)
		s.handleCommanderChatLocked(conn, ev, logger)

	case gameclient.SystemMessageEvent:
		s.checkJoinLocked(ev.Text)

	case gameclient.DisconnectedEvent:
		s.scheduleReconnectLocked("server disconnected", errors.New(ev.Reason))

	case gameclient.KickedEvent:
		s.scheduleReconnectLocked("kicked by server", errors.New(ev.Reason))

	case gameclient.ErrorEvent:
		s.scheduleReconnectLocked("connection error", ev.Err)
	}
}

// onLoginLocked handles login acceptance: connecting → handshaking.
// The attempt counter resets here, not on handshake completion, so a
// server that accepts logins but fails handshakes still backs off
// from a low base. Caller holds s.mu.
func (s *Session) onLoginLocked(conn gameclient.Conn, logger *slog.Logger) {
	if s.state != StateConnecting {
		logger.Debug("login event outside connecting ignored", "state", s.state)
		return
	}
	s.state = StateHandshaking
	s.attempts = 0
	s.timers.Cancel(timerReconnect)
	logger.Info("login accepted, handshaking")
	s.startHandshakeLocked(conn, logger)
}

// startHandshakeLocked launches the handshake task. Caller holds s.mu.
func (s *Session) startHandshakeLocked(conn gameclient.Conn, logger *slog.Logger) {
	hctx, cancel := context.WithCancel(s.ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}
	s.handshake = t
	go func() {
		defer close(t.done)
		defer s.recoverPanic("handshake")
		err := s.runHandshake(hctx, conn, logger)
		s.handshakeFinished(conn, err, logger)
	}()
}

// handshakeFinished re-enters the state machine when the handshake
// task completes. Superseded results (reconnect or shutdown already
// started) are dropped.
func (s *Session) handshakeFinished(conn gameclient.Conn, err error, logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn || s.state != StateHandshaking {
		return
	}
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.scheduleReconnectLocked("handshake failed", err)
		return
	}
	s.enterActiveLocked(conn, logger)
}

// enterActiveLocked handles handshaking → active: arm the planned
// restart timer and start role behavior. Caller holds s.mu.
func (s *Session) enterActiveLocked(conn gameclient.Conn, logger *slog.Logger) {
	s.state = StateActive
	s.activeSince = s.clock.Now()
	s.lastErr = ""
	logger.Info("session active", "planned_restart_in", s.timing.PlannedRestart)

	s.timers.Arm(timerPlannedRestart, s.timing.PlannedRestart, s.plannedRestartFired)
	if s.role == RoleCombat {
		s.startCombatLocked(conn, logger)
	}
}

// plannedRestartFired cycles an active session through a fresh
// connection. Stale fires (session already left active) are dropped.
func (s *Session) plannedRestartFired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return
	}
	s.scheduleReconnectLocked("planned restart", nil)
}

// scheduleReconnectLocked is the single failure funnel: every path
// that loses or abandons a connection lands here. It tears down the
// current connection, stops role behavior, and arms the reconnect
// timer with the next backoff delay. Caller holds s.mu.
func (s *Session) scheduleReconnectLocked(reason string, cause error) {
	if s.state == StateShutdown {
		return
	}
	if s.state == StateReconnecting {
		// One reconnect is already scheduled; a second trigger (e.g. a
		// kick event racing a stream close) must not double-arm.
		s.logger.Debug("reconnect already scheduled, dropping trigger", "reason", reason)
		return
	}
	if s.ctx == nil || s.ctx.Err() != nil {
		return
	}

	s.stopTasksLocked()
	s.releaseConnLocked(reason)
	s.timers.Cancel(timerPlannedRestart)
	s.activeSince = time.Time{}
	s.lastErr = reason
	if cause != nil {
		s.lastErr = fmt.Sprintf("%s: %v", reason, cause)
	}

	delay := s.policy.Delay(s.attempts)
	s.attempts++
	s.state = StateReconnecting
	s.logger.Info("scheduling reconnect",
		"reason", reason,
		"error", s.lastErr,
		"attempt", s.attempts,
		"delay", delay)
	s.timers.Arm(timerReconnect, delay, s.reconnectTimerFired)
}

// reconnectTimerFired starts the next connection attempt when the
// backoff delay elapses.
func (s *Session) reconnectTimerFired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReconnecting || s.ctx.Err() != nil {
		return
	}
	s.beginAttemptLocked()
}

// stopTasksLocked cancels the handshake and combat tasks without
// waiting for them; they observe cancellation at their next step.
// Event waiters are cleared so a dead task never receives a stale
// event. Caller holds s.mu.
func (s *Session) stopTasksLocked() {
	if s.handshake != nil {
		s.handshake.cancel()
		s.handshake = nil
	}
	if s.combat != nil {
		s.combat.cancel()
		s.combat = nil
	}
	s.spawnWaiter = nil
	s.menuWaiter = nil
	s.join.waiter = nil
}

// releaseConnLocked detaches the current connection and tears it down
// in the background: graceful close (errors swallowed), then wait for
// the event reader to drain out. The teardown channel closes when both
// are done; the next dial blocks on it so attempts never overlap.
// Caller holds s.mu.
func (s *Session) releaseConnLocked(reason string) {
	conn := s.conn
	if conn == nil {
		return
	}
	s.conn = nil
	s.spawned = false
	s.join = joinState{}
	readerDone := s.readerDone
	s.readerDone = nil

	td := make(chan struct{})
	s.teardown = td
	logger := s.logger
	go func() {
		defer close(td)
		if err := conn.Close(reason); err != nil {
			logger.Debug("connection close failed", "error", err)
		}
		if readerDone != nil {
			<-readerDone
		}
	}()
}

// Shutdown terminates the session permanently: every timer is
// cancelled, role behavior stops, and the connection closes
// gracefully. Idempotent and safe before Start. Shutdown does not
// block; wait on Done for teardown to complete.
func (s *Session) Shutdown() {
	s.mu.Lock()
	if s.state == StateShutdown {
		s.mu.Unlock()
		return
	}
	s.state = StateShutdown
	s.activeSince = time.Time{}
	s.timers.CancelAll()

	var waits []<-chan struct{}
	if s.handshake != nil {
		waits = append(waits, s.handshake.done)
	}
	if s.combat != nil {
		waits = append(waits, s.combat.done)
	}
	s.stopTasksLocked()
	s.releaseConnLocked("session shutting down")
	if s.teardown != nil {
		waits = append(waits, s.teardown)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.logger.Info("session shutting down")
	go func() {
		for _, ch := range waits {
			<-ch
		}
		s.doneOnce.Do(func() { close(s.done) })
	}()
}

// Restart forces the session through the reconnect path, as if the
// server had dropped it. The backoff counter advances normally.
func (s *Session) Restart(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return fmt.Errorf("session %q has not started", s.name)
	}
	switch s.state {
	case StateShutdown:
		return fmt.Errorf("session %q is shut down", s.name)
	case StateReconnecting:
		return fmt.Errorf("session %q is already reconnecting", s.name)
	}
	if reason == "" {
		reason = "operator restart"
	}
	s.scheduleReconnectLocked(reason, nil)
	return nil
}

// Say sends a chat line through the session's live connection. Only
// active sessions can speak.
func (s *Session) Say(ctx context.Context, text string) error {
	s.mu.Lock()
	conn := s.conn
	state := s.state
	s.mu.Unlock()

	if state != StateActive || conn == nil {
		return fmt.Errorf("session %q cannot chat in state %s", s.name, state)
	}
	if err := conn.SendChat(ctx, text); err != nil {
		return fmt.Errorf("session %q chat: %w", s.name, err)
	}
	return nil
}

// recoverPanic converts a panic in a session goroutine into a logged
// reconnect, so one session's bug never takes down the fleet process.
func (s *Session) recoverPanic(where string) {
	r := recover()
	if r == nil {
		return
	}
	s.logger.Error("panic in session goroutine",
		"where", where,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleReconnectLocked("panic in "+where, fmt.Errorf("panic: %v", r))
}
