// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
)

// acquireLock takes the daemon's single-instance lock under stateDir
// and records the holder's pid beside it. Two daemons sharing a state
// directory would race on the control socket and double-drive every
// session, so the second one must refuse to start.
//
// The returned release removes the pid file and drops the lock.
func acquireLock(stateDir string) (release func(), err error) {
	lockPath := filepath.Join(stateDir, "daemon.lock")
	fileLock := flock.New(lockPath)

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring daemon lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("another garrison-daemon is already running (lock %s is held)", lockPath)
	}

	pidPath := filepath.Join(stateDir, "daemon.pid")
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		fileLock.Unlock()
		return nil, fmt.Errorf("writing pid file %s: %w", pidPath, err)
	}

	return func() {
		os.Remove(pidPath)
		fileLock.Unlock()
	}, nil
}
