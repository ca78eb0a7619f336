// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/garrison-works/garrison/lib/clock"
	"github.com/garrison-works/garrison/lib/config"
	"github.com/garrison-works/garrison/lib/control"
	"github.com/garrison-works/garrison/lib/fleet"
	"github.com/garrison-works/garrison/lib/process"
	"github.com/garrison-works/garrison/lib/roster"
	"github.com/garrison-works/garrison/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		rosterPath  string
		socketPath  string
		simulate    bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "path to garrison.yaml (default: $GARRISON_CONFIG, else built-in defaults)")
	flag.StringVar(&rosterPath, "roster", "", "path to the fleet roster (required)")
	flag.StringVar(&socketPath, "socket", "", "control socket path (overrides config)")
	flag.BoolVar(&simulate, "simulate", false, "run against the built-in simulated server instead of a protocol adapter")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		version.Print("garrison-daemon")
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	runtime, err := cfg.Runtime()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := buildLogger(cfg.Log)
	slog.SetDefault(logger)

	if rosterPath == "" {
		return errors.New("--roster is required")
	}
	fleetRoster, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	if socketPath == "" {
		socketPath = cfg.Control.Socket
	}

	if err := cfg.EnsurePaths(); err != nil {
		return err
	}
	release, err := acquireLock(cfg.Paths.State)
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()
	dialer, err := buildDialer(simulate, clk)
	if err != nil {
		return err
	}

	garrison, err := fleet.New(fleetConfig(cfg, runtime, fleetRoster, dialer, clk, logger))
	if err != nil {
		return fmt.Errorf("building fleet: %w", err)
	}

	controlServer := control.NewServer(socketPath, logger)
	control.RegisterSupervisor(controlServer, garrison)
	controlDone := make(chan error, 1)
	go func() {
		controlDone <- controlServer.Serve(ctx)
	}()

	if err := garrison.Start(ctx); err != nil {
		return err
	}
	logger.Info("fleet running",
		"sessions", len(fleetRoster.Sessions),
		"commander", fleetRoster.Commander,
		"socket", socketPath,
		"simulate", simulate,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	garrison.Shutdown()

	// Wait for the control server to drain in-flight requests.
	if err := <-controlDone; err != nil {
		logger.Error("control server error", "error", err)
	}
	return nil
}

// loadConfig resolves the config source: an explicit --config path,
// then $GARRISON_CONFIG, then the built-in defaults. The defaults
// make `garrison-daemon --roster r.jsonc --simulate` runnable with no
// config file at all.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("GARRISON_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// buildLogger constructs the daemon's root logger from the config's
// log section. Validate has already vetted the level and format.
func buildLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
