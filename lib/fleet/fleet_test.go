// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/gameclient"
	"github.com/garrison-works/garrison/lib/session"
	"github.com/garrison-works/garrison/lib/testutil"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sessionConfig(name string, role session.Role) session.Config {
	return session.Config{
		Name:        name,
		Role:        role,
		Credentials: gameclient.Credentials{Identity: name},
		Target:      gameclient.Target{Host: "play.example.net", Port: 25565},
	}
}

func simFleet(t *testing.T, clk *clock.FakeClock, names ...string) *Fleet {
	t.Helper()
	cfgs := make([]session.Config, len(names))
	for i, name := range names {
		role := session.RoleIdle
		if i == 0 {
			role = session.RoleCombat
		}
		cfgs[i] = sessionConfig(name, role)
	}
	f, err := New(Config{
		Sessions: cfgs,
		Dialer:   gameclient.NewSimDialer(clk, gameclient.SimConfig{}),
		Clock:    clk,
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return f
}

// advanceUntil steps the fake clock until cond holds, yielding between
// steps so session goroutines observe each fired timer.
func advanceUntil(t *testing.T, clk *clock.FakeClock, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached: %s", msg)
		}
		clk.Advance(100 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
}

func TestNewValidatesFleet(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	dialer := gameclient.NewFakeDialer()

	tests := []struct {
		name     string
		sessions []session.Config
		wantErr  string
	}{
		{
			name:    "no sessions",
			wantErr: "at least one session",
		},
		{
			name: "duplicate names",
			sessions: []session.Config{
				sessionConfig("alpha", session.RoleCombat),
				sessionConfig("alpha", session.RoleIdle),
			},
			wantErr: "duplicate session name",
		},
		{
			name: "no combat session",
			sessions: []session.Config{
				sessionConfig("alpha", session.RoleIdle),
				sessionConfig("beta", session.RoleIdle),
			},
			wantErr: "exactly one combat session, found 0",
		},
		{
			name: "two combat sessions",
			sessions: []session.Config{
				sessionConfig("alpha", session.RoleCombat),
				sessionConfig("beta", session.RoleCombat),
			},
			wantErr: "exactly one combat session, found 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Sessions: tt.sessions, Dialer: dialer, Clock: clk, Logger: testLogger()})
			if err == nil {
				t.Fatalf("New() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("New() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestFleetRunsSimulatedSessions(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	f := simFleet(t, clk, "vanguard", "post-one", "post-two")

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- f.Run(ctx) }()

	allActive := func() bool {
		for _, st := range f.Status() {
			if st.State != session.StateActive {
				return false
			}
		}
		return true
	}
	advanceUntil(t, clk, allActive, "all sessions active")

	sts := f.Status()
	wantNames := []string{"vanguard", "post-one", "post-two"}
	for i, st := range sts {
		if st.Name != wantNames[i] {
			t.Fatalf("Status()[%d].Name = %q, want %q", i, st.Name, wantNames[i])
		}
	}
	if sts[0].Role != session.RoleCombat || sts[1].Role != session.RoleIdle {
		t.Fatalf("roles = %q, %q", sts[0].Role, sts[1].Role)
	}

	cancel()
	if err := testutil.RequireReceive(t, runDone, 5*time.Second, "fleet run"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, st := range f.Status() {
		if st.State != session.StateShutdown {
			t.Fatalf("session %q state = %v after shutdown, want %v", st.Name, st.State, session.StateShutdown)
		}
	}
}

func TestFleetStartIsSingleUse(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	f := simFleet(t, clk, "vanguard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := f.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := f.Start(ctx); err == nil {
		t.Fatal("second Start() succeeded, want error")
	}

	f.Shutdown()
	if err := f.Start(ctx); err == nil {
		t.Fatal("Start() after Shutdown succeeded, want error")
	}
}

func TestFleetSessionOperations(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(testEpoch)
	f := simFleet(t, clk, "vanguard", "post-one")

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- f.Run(ctx) }()

	advanceUntil(t, clk, func() bool {
		for _, st := range f.Status() {
			if st.State != session.StateActive {
				return false
			}
		}
		return true
	}, "all sessions active")

	if err := f.Restart("bogus", "x"); err == nil {
		t.Fatal("Restart(bogus) succeeded, want error")
	}
	if err := f.Say(ctx, "bogus", "hi"); err == nil {
		t.Fatal("Say(bogus) succeeded, want error")
	}
	if err := f.Stop("bogus"); err == nil {
		t.Fatal("Stop(bogus) succeeded, want error")
	}

	if err := f.Say(ctx, "vanguard", "reporting in"); err != nil {
		t.Fatalf("Say() error = %v", err)
	}

	// A restarted session cycles back to active on its own.
	if err := f.Restart("post-one", "rotation"); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	advanceUntil(t, clk, func() bool {
		return f.Status()[1].State == session.StateReconnecting
	}, "post-one reconnecting")
	advanceUntil(t, clk, func() bool {
		return f.Status()[1].State == session.StateActive
	}, "post-one active again")

	// Stopping one session leaves the rest running.
	if err := f.Stop("post-one"); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	advanceUntil(t, clk, func() bool {
		return f.Status()[1].State == session.StateShutdown
	}, "post-one shut down")
	if got := f.Status()[0].State; got != session.StateActive {
		t.Fatalf("vanguard state = %v, want %v", got, session.StateActive)
	}

	cancel()
	if err := testutil.RequireReceive(t, runDone, 5*time.Second, "fleet run"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
