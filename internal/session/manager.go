// Package session owns the client's authentication state: the bearer
// credential, the signed-in user's profile and the one-shot restoration of a
// persisted credential at startup.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/felixgeelhaar/pressdesk/internal/credstore"
	"github.com/felixgeelhaar/pressdesk/internal/log"
	"github.com/felixgeelhaar/pressdesk/internal/platform"
)

const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed"
	missingFields    = "Email and password are required"
)

// API is the subset of the backend client the Manager depends on.
type API interface {
	Login(ctx context.Context, email, password string) (*platform.TokenResponse, error)
	Register(ctx context.Context, req platform.RegisterRequest) (*platform.TokenResponse, error)
	CurrentUser(ctx context.Context, token string) (*platform.User, error)
}

// State is a read-only snapshot of the session.
type State struct {
	User            *platform.User
	IsAuthenticated bool
	Loading         bool
	HasCredential   bool
}

// Result reports the outcome of Login or Register. Error is the server's
// detail message or a generic fallback.
type Result struct {
	Success bool
	Error   string
}

// Manager is the single writer of session state. All methods are safe for
// concurrent use; concurrent logins resolve last-write-wins.
type Manager struct {
	api    API
	store  credstore.Store
	logger *log.Logger

	mu         sync.RWMutex
	credential string
	user       *platform.User
	loading    bool
	// seq counts state changes. It is only advanced under mu.
	seq uint64

	restoreOnce sync.Once

	listenersMu sync.Mutex
	listeners   map[int]func(State)
	nextID      int

	// deliverMu serializes notifications; delivered is the last seq sent.
	deliverMu sync.Mutex
	delivered uint64
}

// change is a snapshot taken under mu together with its sequence number.
type change struct {
	state State
	seq   uint64
}

// NewManager creates a Manager seeded with the credential found in store.
// A store read error is logged and treated as no credential.
func NewManager(api API, store credstore.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	m := &Manager{
		api:       api,
		store:     store,
		logger:    logger.With("component", "session"),
		loading:   true,
		listeners: map[int]func(State){},
	}

	token, ok, err := store.Get(credstore.TokenKey)
	switch {
	case err != nil:
		m.logger.WithError(err).Warn("failed to read stored credential")
	case ok:
		m.credential = token
	}
	return m
}

// State returns a snapshot of the current session.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

func (m *Manager) snapshot() State {
	s := State{
		IsAuthenticated: m.user != nil,
		Loading:         m.loading,
		HasCredential:   m.credential != "",
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Token returns the bound credential, or "" when logged out. It makes the
// Manager a platform.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential
}

// Subscribe registers fn to be called with the new State after every change.
// Notifications are delivered one at a time in change order, and a snapshot
// older than one already delivered is dropped. fn runs on the goroutine that
// made the change and must not call Login, Register, Refresh or Logout.
// The returned func removes the listener.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.listenersMu.Lock()
		defer m.listenersMu.Unlock()
		delete(m.listeners, id)
	}
}

// changedLocked records a state change. m.mu must be held for writing.
func (m *Manager) changedLocked() change {
	m.seq++
	return change{state: m.snapshot(), seq: m.seq}
}

func (m *Manager) notify(c change) {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()
	if c.seq <= m.delivered {
		return
	}
	m.delivered = c.seq

	m.listenersMu.Lock()
	fns := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listenersMu.Unlock()

	for _, fn := range fns {
		fn(c.state)
	}
}

// Restore validates the persisted credential by fetching the profile. It runs
// at most once per Manager; later calls return immediately. Any failure logs
// the session out. Loading is false when Restore returns.
func (m *Manager) Restore(ctx context.Context) {
	m.restoreOnce.Do(func() {
		m.restore(ctx)
	})
}

func (m *Manager) restore(ctx context.Context) {
	token := m.Token()
	if token == "" {
		m.finishLoading()
		return
	}

	user, err := m.api.CurrentUser(ctx, token)
	if err != nil {
		m.logger.WithError(err).Warn("session restore failed",
			"kind", errorKind(err),
			"credential", Fingerprint(token))
		m.discard(token)
		m.finishLoading()
		return
	}

	m.mu.Lock()
	if m.credential == token {
		m.user = user
	}
	m.loading = false
	c := m.changedLocked()
	m.mu.Unlock()

	m.logger.Debug("session restored", "user", user.Email)
	m.notify(c)
}

func (m *Manager) finishLoading() {
	m.mu.Lock()
	if !m.loading {
		m.mu.Unlock()
		return
	}
	m.loading = false
	c := m.changedLocked()
	m.mu.Unlock()

	m.notify(c)
}

// Login exchanges credentials for a token, persists it and loads the profile.
// Failures never return a Go error; they are reported in the Result. If
// restoration has not run yet it runs first, so Loading is settled before
// the session changes hands.
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	m.Restore(ctx)
	if strings.TrimSpace(email) == "" || password == "" {
		return Result{Error: missingFields}
	}

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.logger.WithError(err).Info("login failed", "kind", errorKind(err))
		return Result{Error: platform.Message(err, loginFallback)}
	}
	return m.establish(ctx, resp.AccessToken, loginFallback)
}

// Register creates an account and signs in with the issued token.
func (m *Manager) Register(ctx context.Context, email, password, fullName, company string) Result {
	m.Restore(ctx)
	if strings.TrimSpace(email) == "" || password == "" {
		return Result{Error: missingFields}
	}

	resp, err := m.api.Register(ctx, platform.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Company:  company,
	})
	if err != nil {
		m.logger.WithError(err).Info("registration failed", "kind", errorKind(err))
		return Result{Error: platform.Message(err, registerFallback)}
	}
	return m.establish(ctx, resp.AccessToken, registerFallback)
}

// establish persists and binds token, then fetches the profile for it.
func (m *Manager) establish(ctx context.Context, token, fallback string) Result {
	m.mu.Lock()
	if err := m.store.Set(credstore.TokenKey, token); err != nil {
		m.logger.WithError(err).Warn("failed to persist credential")
	}
	// A profile loaded for a different credential no longer applies.
	var switched *change
	if m.user != nil && m.credential != token {
		m.user = nil
		c := m.changedLocked()
		switched = &c
	}
	m.credential = token
	m.mu.Unlock()

	if switched != nil {
		m.notify(*switched)
	}

	user, err := m.api.CurrentUser(ctx, token)
	if err != nil {
		m.logger.WithError(err).Warn("profile fetch after sign-in failed",
			"kind", errorKind(err),
			"credential", Fingerprint(token))
		m.discard(token)
		return Result{Error: platform.Message(err, fallback)}
	}

	m.mu.Lock()
	if m.credential != token {
		// A later sign-in or logout superseded this one.
		m.mu.Unlock()
		return Result{Error: fallback}
	}
	m.user = user
	c := m.changedLocked()
	m.mu.Unlock()

	m.logger.Info("signed in", "user", user.Email, "credential", Fingerprint(token))
	m.notify(c)
	return Result{Success: true}
}

// Refresh re-fetches the profile for the bound credential. The dashboard
// calls it on reload to keep the header current. A failure logs the session
// out and is returned.
func (m *Manager) Refresh(ctx context.Context) error {
	m.Restore(ctx)
	token := m.Token()
	if token == "" {
		return &platform.APIError{Kind: platform.AuthRejected, Detail: "Not authenticated"}
	}

	user, err := m.api.CurrentUser(ctx, token)
	if err != nil {
		m.logger.WithError(err).Warn("profile refresh failed", "kind", errorKind(err))
		m.discard(token)
		return err
	}

	m.mu.Lock()
	if m.credential != token {
		m.mu.Unlock()
		return nil
	}
	m.user = user
	c := m.changedLocked()
	m.mu.Unlock()

	m.notify(c)
	return nil
}

// Logout removes the stored credential and clears the session. It is
// idempotent; listeners are only notified when something changed. The store
// is always cleared, so a credential that could not be read at startup is
// removed too.
func (m *Manager) Logout() {
	m.mu.Lock()
	changed := m.credential != "" || m.user != nil
	m.clearLocked()
	if !changed {
		m.mu.Unlock()
		return
	}
	c := m.changedLocked()
	m.mu.Unlock()

	m.notify(c)
}

// discard logs out only if token is still the bound credential, so a failed
// attempt never clears a newer sign-in.
func (m *Manager) discard(token string) {
	m.mu.Lock()
	if m.credential != token {
		m.mu.Unlock()
		return
	}
	m.clearLocked()
	c := m.changedLocked()
	m.mu.Unlock()

	m.notify(c)
}

func (m *Manager) clearLocked() {
	if err := m.store.Delete(credstore.TokenKey); err != nil {
		m.logger.WithError(err).Warn("failed to remove stored credential")
	}
	m.credential = ""
	m.user = nil
}

func errorKind(err error) string {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	return "unknown"
}
