// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for the garrison daemon.
type Config struct {
	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Control configures the operator control socket.
	Control ControlConfig `yaml:"control"`

	// Server is the default game server target. Roster entries may
	// override it per session.
	Server ServerConfig `yaml:"server"`

	// Timing tunes the handshake and combat loop.
	Timing TimingConfig `yaml:"timing"`

	// Reconnect tunes the reconnect backoff.
	Reconnect ReconnectConfig `yaml:"reconnect"`

	// Fleet tunes fleet-wide behavior.
	Fleet FleetConfig `yaml:"fleet"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is the minimum level emitted: debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format selects the handler: json or text.
	Format string `yaml:"format"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for garrison data.
	Root string `yaml:"root"`

	// State holds runtime state: the daemon lock and pid files.
	State string `yaml:"state"`
}

// ControlConfig configures the operator control socket.
type ControlConfig struct {
	// Socket is the Unix socket path the daemon listens on.
	Socket string `yaml:"socket"`
}

// ServerConfig is a game server endpoint.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TimingConfig tunes the handshake and combat loop. Durations are
// strings parsed with time.ParseDuration.
type TimingConfig struct {
	// DialTimeout bounds each connection attempt.
	DialTimeout string `yaml:"dial_timeout"`

	// SpawnTimeout bounds the wait for the lobby spawn.
	SpawnTimeout string `yaml:"spawn_timeout"`

	// MenuTimeout bounds each wait for the navigation menu.
	MenuTimeout string `yaml:"menu_timeout"`

	// MenuAttempts is how many times the menu activation is retried.
	MenuAttempts int `yaml:"menu_attempts"`

	// JoinTimeout bounds the wait for the join broadcast.
	JoinTimeout string `yaml:"join_timeout"`

	// PlannedRestart is how long a session stays connected before it
	// cycles through a fresh connection.
	PlannedRestart string `yaml:"planned_restart"`

	// AttackPace is the delay between combat swings.
	AttackPace string `yaml:"attack_pace"`
}

// ReconnectConfig tunes the reconnect backoff.
type ReconnectConfig struct {
	// Base is the first reconnect delay.
	Base string `yaml:"base"`

	// Factor multiplies the delay after each failed attempt.
	Factor float64 `yaml:"factor"`

	// Cap bounds the delay growth.
	Cap string `yaml:"cap"`
}

// FleetConfig tunes fleet-wide behavior.
type FleetConfig struct {
	// ShutdownGrace bounds how long shutdown waits for sessions to
	// tear down.
	ShutdownGrace string `yaml:"shutdown_grace"`
}

// Timings is TimingConfig with every duration parsed.
type Timings struct {
	DialTimeout    time.Duration
	SpawnTimeout   time.Duration
	MenuTimeout    time.Duration
	MenuAttempts   int
	JoinTimeout    time.Duration
	PlannedRestart time.Duration
	AttackPace     time.Duration
}

// Backoff is ReconnectConfig with every duration parsed.
type Backoff struct {
	Base   time.Duration
	Factor float64
	Cap    time.Duration
}

// Runtime is the typed form of the string-keyed tunables.
type Runtime struct {
	Timing        Timings
	Backoff       Backoff
	ShutdownGrace time.Duration
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file, so every field has a
// sensible value even when the file only overrides a few.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	root := filepath.Join(homeDir, ".cache", "garrison")

	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Paths: PathsConfig{
			Root:  root,
			State: filepath.Join(root, "state"),
		},
		Control: ControlConfig{
			Socket: filepath.Join(root, "garrison.sock"),
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 25565,
		},
		Timing: TimingConfig{
			DialTimeout:    "10s",
			SpawnTimeout:   "10s",
			MenuTimeout:    "5s",
			MenuAttempts:   3,
			JoinTimeout:    "15s",
			PlannedRestart: "30m",
			AttackPace:     "500ms",
		},
		Reconnect: ReconnectConfig{
			Base:   "2s",
			Factor: 1.5,
			Cap:    "60s",
		},
		Fleet: FleetConfig{
			ShutdownGrace: "5s",
		},
	}
}

// Load loads configuration from the GARRISON_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks - if GARRISON_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("GARRISON_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("GARRISON_CONFIG environment variable not set; " +
			"set it to the path of your garrison.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"GARRISON_ROOT": c.Paths.Root,
		"HOME":          os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["GARRISON_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.State = expandVars(c.Paths.State, vars)
	c.Control.Socket = expandVars(c.Control.Socket, vars)
}

// varPattern matches ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, including that every
// duration string parses.
func (c *Config) Validate() error {
	var errs []error

	levels := []string{"debug", "info", "warn", "error"}
	if !contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levels))
	}
	formats := []string{"json", "text"}
	if !contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if c.Paths.Root == "" {
		errs = append(errs, errors.New("paths.root is required"))
	}
	if c.Paths.State == "" {
		errs = append(errs, errors.New("paths.state is required"))
	}
	if c.Control.Socket == "" {
		errs = append(errs, errors.New("control.socket is required"))
	}

	if c.Server.Host == "" {
		errs = append(errs, errors.New("server.host is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	if c.Timing.MenuAttempts < 1 {
		errs = append(errs, fmt.Errorf("timing.menu_attempts must be at least 1, got %d", c.Timing.MenuAttempts))
	}
	if c.Reconnect.Factor < 1 {
		errs = append(errs, fmt.Errorf("reconnect.factor must be at least 1, got %v", c.Reconnect.Factor))
	}

	if _, err := c.Runtime(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Runtime converts the string-keyed sections into typed values. Every
// malformed duration is reported; Validate surfaces the same errors.
func (c *Config) Runtime() (Runtime, error) {
	var errs []error
	parse := func(field, value string) time.Duration {
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
			return 0
		}
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive, got %s", field, value))
			return 0
		}
		return d
	}

	rt := Runtime{
		Timing: Timings{
			DialTimeout:    parse("timing.dial_timeout", c.Timing.DialTimeout),
			SpawnTimeout:   parse("timing.spawn_timeout", c.Timing.SpawnTimeout),
			MenuTimeout:    parse("timing.menu_timeout", c.Timing.MenuTimeout),
			MenuAttempts:   c.Timing.MenuAttempts,
			JoinTimeout:    parse("timing.join_timeout", c.Timing.JoinTimeout),
			PlannedRestart: parse("timing.planned_restart", c.Timing.PlannedRestart),
			AttackPace:     parse("timing.attack_pace", c.Timing.AttackPace),
		},
		Backoff: Backoff{
			Base:   parse("reconnect.base", c.Reconnect.Base),
			Factor: c.Reconnect.Factor,
			Cap:    parse("reconnect.cap", c.Reconnect.Cap),
		},
		ShutdownGrace: parse("fleet.shutdown_grace", c.Fleet.ShutdownGrace),
	}
	return rt, errors.Join(errs...)
}

// EnsurePaths creates the configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.State, filepath.Dir(c.Control.Socket)} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
