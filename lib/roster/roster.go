// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster loads the fleet roster: which accounts to run, which
// one fights, and who commands it.
//
// Roster files are JSONC (JSON with comments and trailing commas).
// ${VAR} and ${VAR:-default} references are expanded from the
// environment before parsing, so passwords stay out of the file.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/tidwall/jsonc"

	"github.com/garrison-works/garrison/lib/session"
)

// DefaultPort is the game server port assumed when a session override
// names a host without a port.
const DefaultPort = 25565

// Roster is the parsed roster file.
type Roster struct {
	// Commander is the player whose chat commands the combat session
	// obeys.
	Commander string `json:"commander"`

	// Sessions are the fleet members, in start order.
	Sessions []Session `json:"sessions"`
}

// Session is one roster entry.
type Session struct {
	// Name is the unique roster label, used in logs and the CLI.
	Name string `json:"name"`

	// Role is the in-game behavior: combat or idle.
	Role session.Role `json:"role"`

	// Identity is the account username. Defaults to Name.
	Identity string `json:"identity,omitempty"`

	// Password authenticates via /login after connecting. Empty skips
	// the authentication step.
	Password string `json:"password,omitempty"`

	// Host and Port override the default server target for this
	// session. Port defaults to DefaultPort when only Host is set.
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Weapon is an inventory name fragment the combat session equips.
	Weapon string `json:"weapon,omitempty"`

	// MenuSlot overrides the navigation menu slot that joins the
	// target world.
	MenuSlot int `json:"menu_slot,omitempty"`
}

// Load reads, expands, parses, and validates the roster at path.
func Load(path string) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// Parse parses and validates roster bytes.
func Parse(raw []byte) (*Roster, error) {
	expanded := expandEnv(raw)
	var r Roster
	if err := json.Unmarshal(jsonc.ToJSON(expanded), &r); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	r.normalize()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Roster) normalize() {
	for i := range r.Sessions {
		s := &r.Sessions[i]
		if s.Identity == "" {
			s.Identity = s.Name
		}
		if s.Host != "" && s.Port == 0 {
			s.Port = DefaultPort
		}
	}
}

// Validate checks roster semantics: a commander, unique names, valid
// roles, and exactly one combat session.
func (r *Roster) Validate() error {
	var errs []error
	if r.Commander == "" {
		errs = append(errs, errors.New("commander is required"))
	}
	if len(r.Sessions) == 0 {
		errs = append(errs, errors.New("at least one session is required"))
	}

	combat := 0
	seen := make(map[string]bool, len(r.Sessions))
	for i, s := range r.Sessions {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("session %d: name is required", i))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("session %q: duplicate name", s.Name))
		}
		seen[s.Name] = true
		if !s.Role.Valid() {
			errs = append(errs, fmt.Errorf("session %q: role %q is not valid", s.Name, s.Role))
		}
		if s.Role == session.RoleCombat {
			combat++
		}
		if s.Port < 0 || s.Port > 65535 {
			errs = append(errs, fmt.Errorf("session %q: port %d out of range", s.Name, s.Port))
		}
		if s.MenuSlot < 0 {
			errs = append(errs, fmt.Errorf("session %q: menu slot %d out of range", s.Name, s.MenuSlot))
		}
	}
	if combat != 1 {
		errs = append(errs, fmt.Errorf("exactly one combat session is required, found %d", combat))
	}
	return errors.Join(errs...)
}

// Combat returns the combat entry. Valid rosters have exactly one.
func (r *Roster) Combat() (Session, bool) {
	for _, s := range r.Sessions {
		if s.Role == session.RoleCombat {
			return s, true
		}
	}
	return Session{}, false
}

// envPattern matches ${VAR} and ${VAR:-default} references.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnv substitutes environment variable references. Unset
// variables substitute their default, or empty without one.
func expandEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		groups := envPattern.FindSubmatch(m)
		if v, ok := os.LookupEnv(string(groups[1])); ok {
			return []byte(v)
		}
		return groups[2]
	})
}
