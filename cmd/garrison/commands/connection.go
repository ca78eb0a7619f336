// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/garrison-works/garrison/lib/config"
	"github.com/garrison-works/garrison/lib/control"
)

// daemonConnection holds the --socket flag shared by every command
// that talks to the garrison daemon.
type daemonConnection struct {
	SocketPath string
}

// AddFlags registers the connection flags on a command's flag set.
func (c *daemonConnection) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.SocketPath, "socket", "",
		"daemon control socket (default: from config)")
}

// connect resolves the control socket path and returns a client for
// it. No connection is opened until the first call.
func (c *daemonConnection) connect() (*control.Client, error) {
	socketPath, err := c.resolve()
	if err != nil {
		return nil, err
	}
	return control.NewClient(socketPath), nil
}

// resolve picks the socket path: the --socket flag wins, then the
// config file named by GARRISON_CONFIG, then the default config's
// path. This matches the daemon's own resolution so a plain "garrison
// status" finds a plain "garrison-daemon".
func (c *daemonConnection) resolve() (string, error) {
	if c.SocketPath != "" {
		return c.SocketPath, nil
	}
	if os.Getenv("GARRISON_CONFIG") != "" {
		cfg, err := config.Load()
		if err != nil {
			return "", fmt.Errorf("resolving control socket: %w", err)
		}
		return cfg.Control.Socket, nil
	}
	return config.Default().Control.Socket, nil
}

// callContext returns a context with a reasonable timeout for control
// calls. Every daemon action is either an in-memory snapshot or a
// single chat write.
func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
