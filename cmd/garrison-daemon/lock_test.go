// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireLockWritesPidFile(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	release, err := acquireLock(stateDir)
	if err != nil {
		t.Fatalf("acquireLock() error = %v", err)
	}
	defer release()

	raw, err := os.ReadFile(filepath.Join(stateDir, "daemon.pid"))
	if err != nil {
		t.Fatalf("reading pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		t.Fatalf("pid file contents %q: %v", raw, err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid file = %d, want %d", pid, os.Getpid())
	}
}

func TestAcquireLockRefusesSecondHolder(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	release, err := acquireLock(stateDir)
	if err != nil {
		t.Fatalf("first acquireLock() error = %v", err)
	}

	// flock locks are per file description, not per process, so a
	// second acquire from this process still exercises the contention
	// path through a fresh *flock.Flock.
	if _, err := acquireLock(stateDir); err == nil {
		t.Fatal("second acquireLock() succeeded, want refusal")
	} else if !strings.Contains(err.Error(), "already running") {
		t.Errorf("second acquireLock() error = %q, want already-running message", err)
	}

	release()
	if _, err := os.Stat(filepath.Join(stateDir, "daemon.pid")); !os.IsNotExist(err) {
		t.Error("pid file survived release")
	}

	release2, err := acquireLock(stateDir)
	if err != nil {
		t.Fatalf("acquireLock() after release error = %v", err)
	}
	release2()
}
