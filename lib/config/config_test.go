// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("expected info/json logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Server.Port != 25565 {
		t.Errorf("expected port=25565, got %d", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}

	rt, err := cfg.Runtime()
	if err != nil {
		t.Fatalf("Runtime() failed: %v", err)
	}
	if rt.Timing.PlannedRestart != 30*time.Minute {
		t.Errorf("expected planned_restart=30m, got %s", rt.Timing.PlannedRestart)
	}
	if rt.Backoff.Base != 2*time.Second || rt.Backoff.Cap != 60*time.Second {
		t.Errorf("expected backoff 2s..60s, got %s..%s", rt.Backoff.Base, rt.Backoff.Cap)
	}
	if rt.ShutdownGrace != 5*time.Second {
		t.Errorf("expected shutdown_grace=5s, got %s", rt.ShutdownGrace)
	}
}

func TestLoad_RequiresGarrisonConfig(t *testing.T) {
	// Save and restore GARRISON_CONFIG.
	origConfig := os.Getenv("GARRISON_CONFIG")
	defer os.Setenv("GARRISON_CONFIG", origConfig)

	// Unset GARRISON_CONFIG - Load() should fail.
	os.Unsetenv("GARRISON_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when GARRISON_CONFIG not set, got nil")
	}

	expectedMsg := "GARRISON_CONFIG environment variable not set"
	if err.Error()[:len(expectedMsg)] != expectedMsg {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithGarrisonConfig(t *testing.T) {
	origConfig := os.Getenv("GARRISON_CONFIG")
	defer os.Setenv("GARRISON_CONFIG", origConfig)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "garrison.yaml")

	configContent := `
server:
  host: pvp.example.net
paths:
  root: /test/root
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	os.Setenv("GARRISON_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Host != "pvp.example.net" {
		t.Errorf("expected host=pvp.example.net, got %s", cfg.Server.Host)
	}
	if cfg.Paths.Root != "/test/root" {
		t.Errorf("expected root=/test/root, got %s", cfg.Paths.Root)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "garrison.yaml")

	configContent := `
log:
  level: debug
  format: text

paths:
  root: /custom/root
  state: ${GARRISON_ROOT}/run

control:
  socket: ${GARRISON_ROOT}/ctl.sock

server:
  host: play.example.net
  port: 25570

timing:
  planned_restart: 1h
  menu_attempts: 5

reconnect:
  base: 1s
  factor: 2
  cap: 30s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("expected debug/text logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}

	// ${GARRISON_ROOT} expands to the configured root.
	if cfg.Paths.State != "/custom/root/run" {
		t.Errorf("expected state=/custom/root/run, got %s", cfg.Paths.State)
	}
	if cfg.Control.Socket != "/custom/root/ctl.sock" {
		t.Errorf("expected socket=/custom/root/ctl.sock, got %s", cfg.Control.Socket)
	}

	if cfg.Server.Port != 25570 {
		t.Errorf("expected port=25570, got %d", cfg.Server.Port)
	}

	// Unset fields keep their defaults.
	if cfg.Timing.DialTimeout != "10s" {
		t.Errorf("expected dial_timeout=10s default, got %s", cfg.Timing.DialTimeout)
	}

	rt, err := cfg.Runtime()
	if err != nil {
		t.Fatalf("Runtime() failed: %v", err)
	}
	if rt.Timing.PlannedRestart != time.Hour {
		t.Errorf("expected planned_restart=1h, got %s", rt.Timing.PlannedRestart)
	}
	if rt.Timing.MenuAttempts != 5 {
		t.Errorf("expected menu_attempts=5, got %d", rt.Timing.MenuAttempts)
	}
	if rt.Backoff.Factor != 2 {
		t.Errorf("expected factor=2, got %v", rt.Backoff.Factor)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/garrison",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/garrison",
		},
		{
			input:    "${MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "verbose"
			},
			wantErr: true,
		},
		{
			name: "invalid log format",
			modify: func(c *Config) {
				c.Log.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "empty root path",
			modify: func(c *Config) {
				c.Paths.Root = ""
			},
			wantErr: true,
		},
		{
			name: "empty socket path",
			modify: func(c *Config) {
				c.Control.Socket = ""
			},
			wantErr: true,
		},
		{
			name: "missing server host",
			modify: func(c *Config) {
				c.Server.Host = ""
			},
			wantErr: true,
		},
		{
			name: "port out of range",
			modify: func(c *Config) {
				c.Server.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "malformed duration",
			modify: func(c *Config) {
				c.Timing.SpawnTimeout = "soon"
			},
			wantErr: true,
		},
		{
			name: "negative duration",
			modify: func(c *Config) {
				c.Timing.AttackPace = "-500ms"
			},
			wantErr: true,
		},
		{
			name: "zero menu attempts",
			modify: func(c *Config) {
				c.Timing.MenuAttempts = 0
			},
			wantErr: true,
		},
		{
			name: "shrinking backoff factor",
			modify: func(c *Config) {
				c.Reconnect.Factor = 0.5
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsurePaths(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.Paths.Root = filepath.Join(tmpDir, "garrison")
	cfg.Paths.State = filepath.Join(cfg.Paths.Root, "state")
	cfg.Control.Socket = filepath.Join(cfg.Paths.Root, "run", "garrison.sock")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths failed: %v", err)
	}

	for _, path := range []string{cfg.Paths.Root, cfg.Paths.State, filepath.Dir(cfg.Control.Socket)} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("path %s not created: %v", path, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("path %s is not a directory", path)
		}
	}
}
