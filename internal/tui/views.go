package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
)

// View renders the TUI (required by Bubble Tea)
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.outcome.Action {
	case guard.RenderLoading:
		return m.renderLoading()
	case guard.RenderNotFound:
		return m.renderNotFound()
	}

	switch m.outcome.Target {
	case guard.Auth:
		return m.renderAuth()
	case guard.Dashboard:
		return m.renderDashboard()
	case guard.Agents:
		return m.renderAgentsMenu()
	default:
		if m.report != nil {
			return m.renderResult()
		}
		return m.renderAgentForm()
	}
}

func (m Model) renderLoading() string {
	return fmt.Sprintf("\n  %s Restoring session...\n", m.spinner.View())
}

func (m Model) renderNotFound() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("404"))
	b.WriteString("\n")
	b.WriteString(m.styles.Warning.Render("Page not found: "))
	b.WriteString(string(m.outcome.Target))
	b.WriteString("\n")
	b.WriteString(m.renderHelpLine(m.keys.Submit, m.keys.Quit))
	return b.String()
}

// renderHeader renders the title bar with the signed-in user
func (m Model) renderHeader(section string) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("📰 PressDesk"))
	if section != "" {
		b.WriteString(m.styles.Muted.Render("  /  "))
		b.WriteString(m.styles.Status.Render(section))
	}
	if u := m.state.User; u != nil {
		who := u.DisplayName()
		if u.Company != "" {
			who += " · " + u.Company
		}
		b.WriteString("  ")
		b.WriteString(m.styles.Muted.Render(who))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderAuth() string {
	var b strings.Builder

	heading := "Sign in"
	if m.registering {
		heading = "Create your account"
	}
	b.WriteString(m.renderHeader(heading))
	b.WriteString("\n")

	labels := []string{"Email", "Password", "Full name", "Company"}
	var form strings.Builder
	for i, in := range m.authInputs {
		label := m.styles.Muted.Render(labels[i])
		if i == m.authFocus {
			label = m.styles.Key.Render(labels[i])
		}
		form.WriteString(label + "\n" + in.View() + "\n")
		if i < len(m.authInputs)-1 {
			form.WriteString("\n")
		}
	}
	b.WriteString(m.styles.Border.Render(form.String()))
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(fmt.Sprintf("\n%s %s\n", m.spinner.View(), m.styles.Muted.Render("Signing in...")))
	case m.authErr != "":
		b.WriteString("\n" + m.styles.Error.Render("❌ "+m.authErr) + "\n")
	}

	b.WriteString(m.renderHelpLine(m.keys.Next, m.keys.Submit, m.keys.Toggle, m.keys.Back))
	return b.String()
}

func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.renderHeader("Dashboard"))

	switch {
	case m.overviewErr != "":
		b.WriteString(m.styles.Error.Render("❌ "+m.overviewErr) + "\n")
	case m.overview == nil:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.styles.Muted.Render("Loading overview...")))
	default:
		b.WriteString(m.pane.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine(m.keys.Agents, m.keys.Reload, m.keys.Logout, m.keys.Quit))
	return b.String()
}

func (m Model) renderAgentsMenu() string {
	var b strings.Builder
	b.WriteString(m.renderHeader("AI Agents"))

	for i, k := range agents.Kinds() {
		line := fmt.Sprintf("%d. %s", i+1, k.Title())
		if i == m.menuCursor {
			b.WriteString(m.styles.Highlighted.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n   " + m.styles.Muted.Render(k.Description()) + "\n\n")
	}

	b.WriteString(m.renderHelpLine(m.keys.Up, m.keys.Down, m.keys.Submit, m.keys.Dashboard, m.keys.Logout, m.keys.Quit))
	return b.String()
}

func (m Model) renderAgentForm() string {
	f := m.form
	if f == nil {
		return m.renderHeader("")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(f.kind.Title()))
	b.WriteString(m.styles.Subtitle.Render(f.kind.Description()))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		if field.List {
			label += " (comma separated)"
		}
		if i == f.focus {
			b.WriteString(m.styles.Key.Render("› " + label))
		} else {
			b.WriteString(m.styles.Muted.Render("  " + label))
		}
		b.WriteString("\n  ")

		if f.isChoice(i) {
			opt := field.Options[f.choices[i]]
			b.WriteString(fmt.Sprintf("◀ %s ▶  %s", opt.Label, m.styles.Muted.Render(opt.Description)))
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n\n")
	}

	switch {
	case m.running:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.styles.Muted.Render("Working on it...")))
	case f.err != "":
		b.WriteString(m.styles.Error.Render("❌ "+f.err) + "\n")
	}

	bindings := []key.Binding{m.keys.Next, m.keys.Submit, m.keys.Back}
	if f.isChoice(f.focus) {
		bindings = append(bindings, m.keys.Left)
	}
	b.WriteString(m.renderHelpLine(bindings...))
	return b.String()
}

func (m Model) renderResult() string {
	var b strings.Builder
	b.WriteString(m.renderHeader(m.report.Title()))
	b.WriteString(m.pane.View())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice) + "\n")
	}

	bindings := []key.Binding{m.keys.Back}
	if _, _, ok := m.report.Export(m.opts.Now()); ok {
		bindings = append(bindings, m.keys.Save)
	}
	bindings = append(bindings, m.keys.Agents, m.keys.Dashboard, m.keys.Quit)
	b.WriteString(m.renderHelpLine(bindings...))
	return b.String()
}

// renderHelpLine renders the help text for the given bindings
func (m Model) renderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, m.styles.Key.Render(h.Key)+" "+m.styles.KeyDesc.Render(h.Desc))
	}
	return m.styles.Help.Render(strings.Join(parts, m.styles.Muted.Render(" • ")))
}
