package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
)

// agentForm is the input state of one agent screen. Text fields use a
// textinput; option fields cycle through their allowed values.
type agentForm struct {
	kind    agents.Kind
	fields  []agents.Field
	inputs  []textinput.Model
	choices []int
	focus   int
	err     string
}

func newAgentForm(kind agents.Kind) *agentForm {
	fields := agents.Fields(kind)
	f := &agentForm{
		kind:    kind,
		fields:  fields,
		inputs:  make([]textinput.Model, len(fields)),
		choices: make([]int, len(fields)),
	}
	for i, field := range fields {
		in := textinput.New()
		in.Placeholder = field.Placeholder
		in.Prompt = ""
		in.CharLimit = 0
		f.inputs[i] = in

		for j, opt := range field.Options {
			if opt.Value == field.Default {
				f.choices[i] = j
			}
		}
	}
	return f
}

func (f *agentForm) isChoice(i int) bool {
	return len(f.fields[i].Options) > 0
}

func (f *agentForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if f.isChoice(f.focus) {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

func (f *agentForm) move(delta int) tea.Cmd {
	n := len(f.fields)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.focusCurrent()
}

func (f *agentForm) cycle(delta int) {
	if !f.isChoice(f.focus) {
		return
	}
	n := len(f.fields[f.focus].Options)
	f.choices[f.focus] = ((f.choices[f.focus]+delta)%n + n) % n
}

func (f *agentForm) lastField() bool {
	return f.focus == len(f.fields)-1
}

// values returns the raw input keyed by field, as agents.FormFromValues expects.
func (f *agentForm) values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		if f.isChoice(i) {
			values[field.Key] = field.Options[f.choices[i]].Value
			continue
		}
		values[field.Key] = f.inputs[i].Value()
	}
	return values
}

// set fills a field by key. Option fields accept an option value.
func (f *agentForm) set(key, value string) {
	for i, field := range f.fields {
		if field.Key != key {
			continue
		}
		if !f.isChoice(i) {
			f.inputs[i].SetValue(value)
			return
		}
		for j, opt := range field.Options {
			if strings.EqualFold(opt.Value, value) {
				f.choices[i] = j
			}
		}
		return
	}
}

func (f *agentForm) build() (agents.Form, error) {
	return agents.FormFromValues(f.kind, f.values())
}

func (f *agentForm) update(msg tea.Msg) tea.Cmd {
	if f.isChoice(f.focus) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// resetAuthForm builds the sign-in inputs, or the registration inputs when
// the model is in registration mode. Typed email and password are kept.
func (m *Model) resetAuthForm() {
	var email, password string
	if len(m.authInputs) >= 2 {
		email = m.authInputs[0].Value()
		password = m.authInputs[1].Value()
	}

	labels := []string{"you@company.com", "password"}
	if m.registering {
		labels = append(labels, "Full name", "Company (optional)")
	}

	m.authInputs = make([]textinput.Model, len(labels))
	for i, placeholder := range labels {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = ""
		m.authInputs[i] = in
	}
	m.authInputs[0].SetValue(email)
	m.authInputs[1].SetValue(password)
	m.authInputs[1].EchoMode = textinput.EchoPassword
	m.authInputs[1].EchoCharacter = '•'
	m.authFocus = 0
}

func (m *Model) focusAuth(i int) tea.Cmd {
	n := len(m.authInputs)
	m.authFocus = ((i % n) + n) % n
	for j := range m.authInputs {
		m.authInputs[j].Blur()
	}
	return m.authInputs[m.authFocus].Focus()
}

func (m *Model) authValue(i int) string {
	if i >= len(m.authInputs) {
		return ""
	}
	return strings.TrimSpace(m.authInputs[i].Value())
}

// submitAuth runs Login or Register off the update loop.
func (m *Model) submitAuth() tea.Cmd {
	if m.submitting {
		return nil
	}
	m.submitting = true
	m.authErr = ""

	ctx, sess := m.ctx, m.session
	email, password := m.authValue(0), m.authInputs[1].Value()
	if !m.registering {
		return func() tea.Msg {
			res := sess.Login(ctx, email, password)
			return authResultMsg{result: res, state: sess.State()}
		}
	}
	fullName, company := m.authValue(2), m.authValue(3)
	return func() tea.Msg {
		res := sess.Register(ctx, email, password, fullName, company)
		return authResultMsg{result: res, state: sess.State()}
	}
}

// submitAgent validates the current form locally and runs it when valid.
func (m *Model) submitAgent() tea.Cmd {
	if m.form == nil || m.running {
		return nil
	}
	form, err := m.form.build()
	if err == nil {
		err = form.Validate()
	}
	if err != nil {
		m.form.err = agents.ErrorMessage(m.form.kind, err)
		return nil
	}

	m.form.err = ""
	m.running = true
	ctx, svc, kind := m.ctx, m.agents, m.form.kind
	return func() tea.Msg {
		report, err := svc.Run(ctx, form)
		return agentResultMsg{kind: kind, report: report, err: err}
	}
}

func (m *Model) saveReport() tea.Cmd {
	if m.report == nil {
		return nil
	}
	report, dir, now := m.report, m.opts.ExportDir, m.opts.Now()
	return func() tea.Msg {
		path, err := agents.WriteExport(dir, report, now)
		return exportMsg{path: path, err: err}
	}
}
