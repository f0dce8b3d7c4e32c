package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
)

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if key.Matches(msg, m.keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.outcome.Action {
	case guard.RenderLoading:
		return m, nil
	case guard.RenderNotFound:
		return m.handleNotFoundKeys(msg)
	}

	switch target := m.outcome.Target; target {
	case guard.Auth:
		return m.handleAuthKeys(msg)
	case guard.Dashboard:
		return m.handleDashboardKeys(msg)
	case guard.Agents:
		return m.handleMenuKeys(msg)
	default:
		if m.report != nil {
			return m.handleResultKeys(msg)
		}
		return m.handleFormKeys(msg)
	}
}

// handleNavKeys handles the keys shared by every signed-in screen that has no
// text input. ok is false when msg is not one of them.
func (m *Model) handleNavKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keys.Dashboard):
		return m.navigate(guard.Dashboard), true
	case key.Matches(msg, m.keys.Agents):
		return m.navigate(guard.Agents), true
	case key.Matches(msg, m.keys.Logout):
		return m.logout(false), true
	}
	return nil, false
}

func (m Model) handleNotFoundKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Back) {
		return m, m.navigate(guard.Root)
	}
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.registering = !m.registering
		m.authErr = ""
		m.resetAuthForm()
		return m, m.focusAuth(0)
	case key.Matches(msg, m.keys.Next), msg.Type == tea.KeyDown:
		return m, m.focusAuth(m.authFocus + 1)
	case key.Matches(msg, m.keys.Prev), msg.Type == tea.KeyUp:
		return m, m.focusAuth(m.authFocus - 1)
	case key.Matches(msg, m.keys.Submit):
		if m.authFocus < len(m.authInputs)-1 {
			return m, m.focusAuth(m.authFocus + 1)
		}
		return m, m.submitAuth()
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleNavKeys(msg); ok {
		return m, cmd
	}
	if key.Matches(msg, m.keys.Reload) && !m.overviewLoading {
		return m, tea.Batch(m.loadOverview(), m.refreshProfile())
	}

	var cmd tea.Cmd
	m.pane, cmd = m.pane.Update(msg)
	return m, cmd
}

func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleNavKeys(msg); ok {
		return m, cmd
	}

	kinds := agents.Kinds()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(kinds)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Submit):
		return m, m.navigate(kinds[m.menuCursor].Route())
	case key.Matches(msg, m.keys.Back):
		return m, m.navigate(guard.Dashboard)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		if i := int(msg.Runes[0] - '1'); i >= 0 && i < len(kinds) {
			m.menuCursor = i
			return m, m.navigate(kinds[i].Route())
		}
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil || m.running {
		if key.Matches(msg, m.keys.Back) && !m.running {
			return m, m.navigate(guard.Agents)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.navigate(guard.Agents)
	case key.Matches(msg, m.keys.Next), msg.Type == tea.KeyDown:
		return m, f.move(1)
	case key.Matches(msg, m.keys.Prev), msg.Type == tea.KeyUp:
		return m, f.move(-1)
	case f.isChoice(f.focus) && key.Matches(msg, m.keys.Left):
		f.cycle(-1)
		return m, nil
	case f.isChoice(f.focus) && key.Matches(msg, m.keys.Right):
		f.cycle(1)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if !f.lastField() {
			return m, f.move(1)
		}
		return m, m.submitAgent()
	}
	return m, f.update(msg)
}

func (m Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleNavKeys(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.report = nil
		m.notice = ""
		return m, m.form.focusCurrent()
	case key.Matches(msg, m.keys.Save):
		if _, _, ok := m.report.Export(m.opts.Now()); ok {
			return m, m.saveReport()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pane, cmd = m.pane.Update(msg)
	return m, cmd
}
