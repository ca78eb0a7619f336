// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package watchui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/garrison-works/garrison/lib/session"
)

// Theme defines the color palette for the watch view. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Session state colors.
	StateActive       lipgloss.Color
	StateHandshaking  lipgloss.Color
	StateConnecting   lipgloss.Color
	StateReconnecting lipgloss.Color
	StateShutdown     lipgloss.Color

	// Role accent for the combat session row.
	CombatAccent lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color
}

// StateColor returns the color for a session state. Unknown states
// render as faint text.
func (theme Theme) StateColor(state session.State) lipgloss.Color {
	switch state {
	case session.StateActive:
		return theme.StateActive
	case session.StateHandshaking:
		return theme.StateHandshaking
	case session.StateConnecting, session.StateIdle:
		return theme.StateConnecting
	case session.StateReconnecting:
		return theme.StateReconnecting
	case session.StateShutdown:
		return theme.StateShutdown
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	StateActive:       lipgloss.Color("114"), // green
	StateHandshaking:  lipgloss.Color("220"), // yellow/amber
	StateConnecting:   lipgloss.Color("75"),  // blue
	StateReconnecting: lipgloss.Color("208"), // orange
	StateShutdown:     lipgloss.Color("245"), // gray

	CombatAccent: lipgloss.Color("203"), // soft red

	HeaderForeground: lipgloss.Color("255"),
	HelpText:         lipgloss.Color("241"),
	ErrorText:        lipgloss.Color("196"),
}
