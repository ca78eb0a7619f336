// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package watchui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/garrison-works/garrison/lib/session"
)

// Fetcher supplies fleet snapshots for the watch view. Implemented by
// [control.Client]; tests substitute a fake.
type Fetcher interface {
	Status(ctx context.Context) ([]session.Status, error)
}

// fetchTimeout bounds a single status call. Shorter than the poll
// interval would starve the view; longer than a few seconds means the
// daemon is unreachable and the error row should say so.
const fetchTimeout = 5 * time.Second

// statusMsg delivers a fleet snapshot through the message loop.
type statusMsg struct {
	sessions  []session.Status
	fetchedAt time.Time
}

// statusErrMsg reports a failed status fetch. The previous snapshot
// stays on screen with the error shown in the footer.
type statusErrMsg struct {
	err error
}

// pollTickMsg is sent when the poll interval elapses and a fresh
// snapshot should be fetched.
type pollTickMsg time.Time

// Model is the bubbletea model for the live fleet watch view.
type Model struct {
	fetcher  Fetcher
	interval time.Duration
	theme    Theme
	keys     KeyMap
	spinner  spinner.Model

	width  int
	height int

	sessions  []session.Status
	fetchedAt time.Time
	fetchErr  error
	loaded    bool
	quitting  bool
}

// New creates a watch model polling fetcher every interval.
func New(fetcher Fetcher, interval time.Duration) Model {
	theme := DefaultTheme

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.FaintText)

	return Model{
		fetcher:  fetcher,
		interval: interval,
		theme:    theme,
		keys:     DefaultKeyMap,
		spinner:  sp,
	}
}

// Init starts the first fetch and the spinner animation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

// fetch returns a command that queries the daemon for a snapshot.
func (m Model) fetch() tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		sessions, err := fetcher.Status(ctx)
		if err != nil {
			return statusErrMsg{err: err}
		}
		return statusMsg{sessions: sessions, fetchedAt: time.Now()}
	}
}

// schedulePoll arms the next poll tick.
func (m Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// Update handles messages: key presses, poll ticks, fetch results,
// spinner animation frames, and terminal resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetch()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		m.sessions = msg.sessions
		m.fetchedAt = msg.fetchedAt
		m.fetchErr = nil
		m.loaded = true
		return m, m.schedulePoll()

	case statusErrMsg:
		m.fetchErr = msg.err
		m.loaded = true
		return m, m.schedulePoll()

	case pollTickMsg:
		return m, m.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// transitional reports whether a state is one the session moves
// through on its own, warranting a spinner next to the state cell.
func transitional(state session.State) bool {
	switch state {
	case session.StateConnecting, session.StateHandshaking, session.StateReconnecting:
		return true
	}
	return false
}

// View renders the fleet table.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	helpStyle := lipgloss.NewStyle().Foreground(m.theme.HelpText)
	errorStyle := lipgloss.NewStyle().Foreground(m.theme.ErrorText)

	var b strings.Builder

	title := headerStyle.Render("garrison fleet")
	if !m.fetchedAt.IsZero() {
		title += faintStyle.Render(fmt.Sprintf("  as of %s", m.fetchedAt.Format("15:04:05")))
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString(m.spinner.View())
		b.WriteString(faintStyle.Render(" connecting to daemon..."))
		b.WriteString("\n")
	case len(m.sessions) == 0:
		b.WriteString(faintStyle.Render("no sessions"))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	if m.fetchErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.fetchErr)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s refresh · %s quit",
		m.keys.Refresh.Help().Key, m.keys.Quit.Help().Key)))
	b.WriteString("\n")

	return b.String()
}

// renderTable renders the per-session rows with a header line. Column
// widths are computed from the data so the table stays aligned without
// a tabwriter pass over styled (ANSI-laden) text.
func (m Model) renderTable() string {
	nameWidth := len("SESSION")
	targetWidth := len("TARGET")
	for _, s := range m.sessions {
		nameWidth = max(nameWidth, len(s.Name))
		targetWidth = max(targetWidth, len(s.Target))
	}

	const stateWidth = 16 // longest state plus spinner cell and gap

	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(m.theme.ErrorText)

	var b strings.Builder
	b.WriteString(faintStyle.Render(fmt.Sprintf("  %-*s  %-7s%-*s%-*s  %-9s%s",
		nameWidth, "SESSION", "ROLE", stateWidth, "STATE", targetWidth, "TARGET", "UPTIME", "DETAIL")))
	b.WriteString("\n")

	for _, s := range m.sessions {
		stateStyle := lipgloss.NewStyle().Foreground(m.theme.StateColor(s.State))

		stateCell := string(s.State)
		if transitional(s.State) {
			stateCell = m.spinner.View() + stateCell
		}
		// Pad on the plain width, then style; styling first would make
		// %-*s count escape bytes as width.
		padding := stateWidth - lipgloss.Width(stateCell)
		if padding < 0 {
			padding = 0
		}
		styledState := stateStyle.Render(stateCell) + strings.Repeat(" ", padding)

		role := string(s.Role)
		roleCell := fmt.Sprintf("%-7s", role)
		if s.Role == session.RoleCombat {
			roleCell = lipgloss.NewStyle().Foreground(m.theme.CombatAccent).Render(roleCell)
		} else {
			roleCell = faintStyle.Render(roleCell)
		}

		uptime := "-"
		if s.State == session.StateActive && !s.ActiveSince.IsZero() {
			uptime = formatDuration(time.Since(s.ActiveSince))
		}

		detail := ""
		switch {
		case s.State == session.StateReconnecting && s.LastError != "":
			detail = errorStyle.Render(truncate(s.LastError, 48)) +
				faintStyle.Render(fmt.Sprintf(" (attempt %d)", s.Attempts))
		case s.LastError != "":
			detail = faintStyle.Render(truncate(s.LastError, 48))
		}

		b.WriteString(fmt.Sprintf("  %-*s  %s%s%-*s  %-9s%s",
			nameWidth, s.Name, roleCell, styledState, targetWidth, s.Target, uptime, detail))
		b.WriteString("\n")
	}

	return b.String()
}

// truncate shortens s to at most n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// formatDuration renders a duration as a compact age string.
func formatDuration(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
