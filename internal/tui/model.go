// Package tui is the interactive dashboard: a bubbletea program whose screens
// are chosen by the route guard from the current session state.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
	"github.com/felixgeelhaar/pressdesk/internal/platform"
	"github.com/felixgeelhaar/pressdesk/internal/session"
)

// Session is the part of *session.Manager the dashboard uses.
type Session interface {
	State() session.State
	Restore(ctx context.Context)
	Login(ctx context.Context, email, password string) session.Result
	Register(ctx context.Context, email, password, fullName, company string) session.Result
	Refresh(ctx context.Context) error
	Logout()
	Subscribe(fn func(session.State)) func()
}

// AgentService is the part of *agents.Service the dashboard uses.
type AgentService interface {
	Run(ctx context.Context, form agents.Form) (agents.Report, error)
	Overview(ctx context.Context) (*platform.Overview, error)
}

// Options configures a dashboard model.
type Options struct {
	// Route is the first route requested; empty means "/".
	Route guard.Route
	// RenderStyle is passed to agents.NewRenderer.
	RenderStyle string
	// ExportDir receives saved briefs and content; empty means the working directory.
	ExportDir string
	Now       func() time.Time
}

const (
	overviewFallback = "Failed to load dashboard"
	sessionExpired   = "Your session has expired. Please sign in again."
	refreshFallback  = "Failed to refresh your profile"
)

// Model represents the dashboard state
type Model struct {
	ctx     context.Context
	session Session
	agents  AgentService
	opts    Options

	// Routing state
	state   session.State
	route   guard.Route
	outcome guard.Outcome

	// Auth form
	registering bool
	authInputs  []textinput.Model
	authFocus   int
	authErr     string
	submitting  bool

	// Dashboard
	overview        *platform.Overview
	overviewErr     string
	overviewLoading bool

	// Agents
	menuCursor int
	form       *agentForm
	report     agents.Report
	running    bool
	notice     string

	// UI state
	width    int
	height   int
	ready    bool
	quitting bool
	spinner  spinner.Model
	pane     viewport.Model
	renderer *agents.Renderer
	keys     keyMap

	// Styles
	styles Styles
}

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Border      lipgloss.Style
	Highlighted lipgloss.Style
	Help        lipgloss.Style
	Key         lipgloss.Style
	KeyDesc     lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2),
		Highlighted: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230")). // Light yellow
			Bold(true).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
		KeyDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Dashboard key.Binding
	Agents    key.Binding
	Logout    key.Binding
	Back      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Submit    key.Binding
	Toggle    key.Binding
	Save      key.Binding
	Reload    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Dashboard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dashboard")),
		Agents:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "agents")),
		Logout:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "change option")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Toggle:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "sign in / create account")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save to file")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// NewModel creates a dashboard model. The session is restored by Init.
func NewModel(ctx context.Context, sess Session, svc AgentService, opts Options) Model {
	if opts.Route == "" {
		opts.Route = guard.Root
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	// A renderer that fails to load its style degrades to plain markdown.
	renderer, err := agents.NewRenderer(opts.RenderStyle, 80)
	if err != nil {
		renderer, _ = agents.NewRenderer(agents.StylePlain, 80)
	}

	m := Model{
		ctx:      ctx,
		session:  sess,
		agents:   svc,
		opts:     opts,
		route:    opts.Route,
		width:    80,
		height:   24,
		spinner:  sp,
		pane:     viewport.New(80, 16),
		renderer: renderer,
		keys:     defaultKeys(),
		styles:   DefaultStyles(),
	}
	// Screens are entered on the first state message, which Init's restore produces.
	m.state = sess.State()
	m.outcome = guard.Outcome{Action: guard.RenderLoading, Target: m.route}
	m.resetAuthForm()
	return m
}

// Init restores the session and starts the spinner (required by Bubble Tea)
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.restore(), m.spinner.Tick)
}

// Custom messages

// stateMsg carries a session snapshot, either pushed by the Manager or
// returned from a command that changed it.
type stateMsg struct {
	state session.State
}

// loggedOutMsg follows a logout run off the update loop. expired is set when
// the backend rejected the credential.
type loggedOutMsg struct {
	state   session.State
	expired bool
}

// profileMsg follows a profile refresh.
type profileMsg struct {
	state session.State
	err   error
}

type authResultMsg struct {
	result session.Result
	state  session.State
}

type overviewMsg struct {
	overview *platform.Overview
	err      error
}

type agentResultMsg struct {
	kind   agents.Kind
	report agents.Report
	err    error
}

type exportMsg struct {
	path string
	err  error
}

// navigateMsg asks the model to go to a route.
type navigateMsg struct {
	route guard.Route
}

func (m Model) restore() tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		sess.Restore(ctx)
		return stateMsg{state: sess.State()}
	}
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		return m, m.applyState(msg.state)

	case navigateMsg:
		return m, m.navigate(msg.route)

	case loggedOutMsg:
		cmd := m.applyState(msg.state)
		if msg.expired {
			m.authErr = sessionExpired
		}
		return m, cmd

	case profileMsg:
		cmd := m.applyState(msg.state)
		if msg.err != nil && !msg.state.IsAuthenticated {
			if platform.IsKind(msg.err, platform.AuthRejected) {
				m.authErr = sessionExpired
			} else {
				m.authErr = platform.Message(msg.err, refreshFallback)
			}
		}
		return m, cmd

	case authResultMsg:
		m.submitting = false
		if !msg.result.Success {
			m.authErr = msg.result.Error
		} else {
			m.authErr = ""
		}
		return m, m.applyState(msg.state)

	case overviewMsg:
		m.overviewLoading = false
		if msg.err != nil {
			if platform.IsKind(msg.err, platform.AuthRejected) {
				return m, m.expire()
			}
			m.overviewErr = platform.Message(msg.err, overviewFallback)
			return m, nil
		}
		m.overviewErr = ""
		m.overview = msg.overview
		if m.outcome.Target == guard.Dashboard {
			m.setPane(agents.OverviewMarkdown(msg.overview))
		}
		return m, nil

	case agentResultMsg:
		m.running = false
		if msg.err != nil {
			if platform.IsKind(msg.err, platform.AuthRejected) {
				return m, m.expire()
			}
			if m.form != nil && m.form.kind == msg.kind {
				m.form.err = agents.ErrorMessage(msg.kind, msg.err)
			}
			return m, nil
		}
		if m.form == nil || m.form.kind != msg.kind {
			return m, nil
		}
		m.form.err = ""
		m.report = msg.report
		m.notice = ""
		m.setPane(msg.report.Markdown())
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.notice = agents.ErrorMessage(m.currentKind(), msg.err)
		} else {
			m.notice = "Saved to " + msg.path
		}
		return m, nil
	}

	return m, nil
}

// applyState stores a session snapshot and re-runs the guard for the current route.
func (m *Model) applyState(state session.State) tea.Cmd {
	wasAuthenticated := m.state.IsAuthenticated
	m.state = state
	if wasAuthenticated && !state.IsAuthenticated {
		m.clearAccountData()
	}
	return m.navigate(m.route)
}

// navigate resolves route through the guard and enters the resulting screen.
func (m *Model) navigate(route guard.Route) tea.Cmd {
	prev := m.outcome
	m.route = route
	m.outcome = guard.Resolve(m.state.Loading, m.state.IsAuthenticated, route)
	if m.outcome.Action == guard.Render {
		m.route = m.outcome.Target
	}
	if m.outcome == prev {
		return nil
	}
	if m.outcome.Action != guard.Render {
		return nil
	}
	return m.enter(m.outcome.Target)
}

// enter prepares a screen the guard decided to render.
func (m *Model) enter(target guard.Route) tea.Cmd {
	switch target {
	case guard.Auth:
		m.authInputs = nil
		m.registering = false
		m.resetAuthForm()
		return m.authInputs[m.authFocus].Focus()
	case guard.Dashboard:
		m.notice = ""
		if m.overview != nil {
			m.setPane(agents.OverviewMarkdown(m.overview))
		}
		return m.loadOverview()
	case guard.Agents:
		m.notice = ""
		return nil
	}

	kind, ok := agents.KindForRoute(target)
	if !ok {
		return nil
	}
	if m.form == nil || m.form.kind != kind {
		m.form = newAgentForm(kind)
		m.report = nil
	}
	if m.report != nil {
		m.setPane(m.report.Markdown())
		return nil
	}
	return m.form.focusCurrent()
}

func (m *Model) loadOverview() tea.Cmd {
	m.overviewLoading = true
	ctx, svc := m.ctx, m.agents
	return func() tea.Msg {
		overview, err := svc.Overview(ctx)
		return overviewMsg{overview: overview, err: err}
	}
}

// logout signs out in a command. Logout notifies subscribers, and the
// subscriber installed by Run sends to the program, so it must never run
// inside Update.
func (m Model) logout(expired bool) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		sess.Logout()
		return loggedOutMsg{state: sess.State(), expired: expired}
	}
}

// expire handles a credential the backend no longer accepts.
func (m Model) expire() tea.Cmd {
	return m.logout(true)
}

// refreshProfile re-fetches the signed-in user for the header.
func (m Model) refreshProfile() tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		err := sess.Refresh(ctx)
		return profileMsg{state: sess.State(), err: err}
	}
}

func (m *Model) clearAccountData() {
	m.overview = nil
	m.overviewErr = ""
	m.form = nil
	m.report = nil
	m.notice = ""
	m.running = false
	m.menuCursor = 0
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.pane.Width = width
	m.pane.Height = max(height-paneChrome, 3)

	if r, err := agents.NewRenderer(m.opts.RenderStyle, max(width-4, 20)); err == nil {
		m.renderer = r
	}
	switch {
	case m.report != nil:
		m.setPane(m.report.Markdown())
	case m.overview != nil && m.outcome.Target == guard.Dashboard:
		m.setPane(agents.OverviewMarkdown(m.overview))
	}
}

// paneChrome is the number of lines used around the scrollable pane.
const paneChrome = 7

func (m *Model) setPane(markdown string) {
	m.pane.SetContent(m.renderer.Render(markdown))
	m.pane.GotoTop()
}

func (m Model) currentKind() agents.Kind {
	if m.form != nil {
		return m.form.kind
	}
	return ""
}

// Route returns the route the dashboard is on.
func (m Model) Route() guard.Route {
	return m.route
}

// Outcome returns the guard decision currently rendered.
func (m Model) Outcome() guard.Outcome {
	return m.outcome
}
