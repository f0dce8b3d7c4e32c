package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pressdesk/internal/credstore"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
	"github.com/felixgeelhaar/pressdesk/internal/log"
	"github.com/felixgeelhaar/pressdesk/internal/platform"
)

// fakeAPI issues "T-<email>" tokens and resolves them back to a profile.
type fakeAPI struct {
	loginErr   error
	profileErr error
	// profileHook, when set, runs before CurrentUser answers.
	profileHook func(token string)

	loginCalls   atomic.Int32
	profileCalls atomic.Int32
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*platform.TokenResponse, error) {
	f.loginCalls.Add(1)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &platform.TokenResponse{AccessToken: "T-" + email, TokenType: "bearer"}, nil
}

func (f *fakeAPI) Register(_ context.Context, req platform.RegisterRequest) (*platform.TokenResponse, error) {
	f.loginCalls.Add(1)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &platform.TokenResponse{AccessToken: "T-" + req.Email, TokenType: "bearer"}, nil
}

func (f *fakeAPI) CurrentUser(_ context.Context, token string) (*platform.User, error) {
	f.profileCalls.Add(1)
	if f.profileHook != nil {
		f.profileHook(token)
	}
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	email := strings.TrimPrefix(token, "T-")
	return &platform.User{ID: "id-" + email, Email: email, FullName: "Test User"}, nil
}

type failingStore struct {
	credstore.Store
	getErr, setErr, deleteErr error
}

func (f failingStore) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(key)
}

func (f failingStore) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(key, value)
}

func (f failingStore) Delete(key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Store.Delete(key)
}

func storeWith(t *testing.T, token string) *credstore.MemoryStore {
	t.Helper()
	store := credstore.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.Set(credstore.TokenKey, token))
	}
	return store
}

func storedToken(t *testing.T, store credstore.Store) (string, bool) {
	t.Helper()
	token, ok, err := store.Get(credstore.TokenKey)
	require.NoError(t, err)
	return token, ok
}

func TestNewManagerStartsLoading(t *testing.T) {
	m := NewManager(&fakeAPI{}, storeWith(t, "T-a@b.c"), log.Discard())

	state := m.State()
	assert.True(t, state.Loading)
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.HasCredential)
	assert.Equal(t, "T-a@b.c", m.Token())
}

func TestRestoreWithoutCredential(t *testing.T) {
	api := &fakeAPI{}
	m := NewManager(api, storeWith(t, ""), log.Discard())

	m.Restore(context.Background())

	state := m.State()
	assert.False(t, state.Loading)
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Zero(t, api.profileCalls.Load(), "no request should be made without a credential")
}

func TestRestoreWithValidCredential(t *testing.T) {
	api := &fakeAPI{}
	m := NewManager(api, storeWith(t, "T-a@b.c"), log.Discard())

	m.Restore(context.Background())

	state := m.State()
	assert.False(t, state.Loading)
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "a@b.c", state.User.Email)
}

func TestRestoreFailureLogsOut(t *testing.T) {
	failures := map[string]error{
		"rejected":  &platform.APIError{Kind: platform.AuthRejected, StatusCode: 401},
		"network":   &platform.APIError{Kind: platform.NetworkFailure, Cause: errors.New("connection refused")},
		"malformed": &platform.APIError{Kind: platform.MalformedResponse},
	}

	for name, failure := range failures {
		t.Run(name, func(t *testing.T) {
			store := storeWith(t, "stale")
			m := NewManager(&fakeAPI{profileErr: failure}, store, log.Discard())

			m.Restore(context.Background())

			state := m.State()
			assert.False(t, state.Loading)
			assert.False(t, state.IsAuthenticated)
			assert.False(t, state.HasCredential)
			assert.Empty(t, m.Token())

			_, ok := storedToken(t, store)
			assert.False(t, ok, "credential should be removed from the store")
		})
	}
}

func TestRestoreRunsOnce(t *testing.T) {
	api := &fakeAPI{}
	m := NewManager(api, storeWith(t, "T-a@b.c"), log.Discard())

	m.Restore(context.Background())
	m.Restore(context.Background())

	assert.Equal(t, int32(1), api.profileCalls.Load())
}

func TestLoadingFlipsExactlyOnce(t *testing.T) {
	m := NewManager(&fakeAPI{}, storeWith(t, "T-a@b.c"), log.Discard())

	var mu sync.Mutex
	var seen []bool
	m.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.Loading)
	})

	m.Restore(context.Background())
	m.Login(context.Background(), "x@y.z", "pw")
	m.Logout()
	m.Restore(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for _, loading := range seen {
		assert.False(t, loading, "loading must never return to true")
	}
}

func TestLoginSuccess(t *testing.T) {
	store := storeWith(t, "")
	m := NewManager(&fakeAPI{}, store, log.Discard())
	m.Restore(context.Background())

	result := m.Login(context.Background(), "a@b.c", "secret")

	assert.Equal(t, Result{Success: true}, result)
	state := m.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "a@b.c", state.User.Email)

	token, ok := storedToken(t, store)
	assert.True(t, ok)
	assert.Equal(t, "T-a@b.c", token)
}

func TestLoginRejected(t *testing.T) {
	store := storeWith(t, "")
	api := &fakeAPI{loginErr: &platform.APIError{
		Kind:       platform.AuthRejected,
		StatusCode: 401,
		Detail:     "Invalid credentials",
	}}
	m := NewManager(api, store, log.Discard())
	m.Restore(context.Background())
	before := m.State()

	result := m.Login(context.Background(), "a@b.c", "wrong")

	assert.Equal(t, Result{Success: false, Error: "Invalid credentials"}, result)
	assert.Equal(t, before, m.State())
	_, ok := storedToken(t, store)
	assert.False(t, ok)
}

func TestLoginNetworkFailureUsesFallback(t *testing.T) {
	api := &fakeAPI{loginErr: &platform.APIError{Kind: platform.NetworkFailure, Cause: errors.New("refused")}}
	m := NewManager(api, storeWith(t, ""), log.Discard())

	assert.Equal(t, Result{Error: "Login failed"}, m.Login(context.Background(), "a@b.c", "pw"))
}

func TestLoginRequiresCredentials(t *testing.T) {
	api := &fakeAPI{}
	m := NewManager(api, storeWith(t, ""), log.Discard())

	tests := []struct{ email, password string }{
		{"", "pw"},
		{"   ", "pw"},
		{"a@b.c", ""},
	}
	for _, tt := range tests {
		result := m.Login(context.Background(), tt.email, tt.password)
		assert.Equal(t, Result{Error: "Email and password are required"}, result)
	}
	assert.Zero(t, api.loginCalls.Load())
}

func TestLoginProfileFailureLogsOut(t *testing.T) {
	store := storeWith(t, "")
	api := &fakeAPI{profileErr: &platform.APIError{Kind: platform.MalformedResponse}}
	m := NewManager(api, store, log.Discard())

	result := m.Login(context.Background(), "a@b.c", "pw")

	assert.Equal(t, Result{Error: "Login failed"}, result)
	assert.False(t, m.State().IsAuthenticated)
	assert.Empty(t, m.Token())
	_, ok := storedToken(t, store)
	assert.False(t, ok)
}

func TestLoginStoreWriteFailureStillSignsIn(t *testing.T) {
	store := failingStore{Store: credstore.NewMemoryStore(), setErr: errors.New("disk full")}
	m := NewManager(&fakeAPI{}, store, log.Discard())

	result := m.Login(context.Background(), "a@b.c", "pw")

	assert.True(t, result.Success)
	assert.True(t, m.State().IsAuthenticated)
	assert.Equal(t, "T-a@b.c", m.Token())
}

func TestStoreReadFailureTreatedAsAbsent(t *testing.T) {
	store := failingStore{Store: credstore.NewMemoryStore(), getErr: errors.New("permission denied")}
	api := &fakeAPI{}
	m := NewManager(api, store, log.Discard())

	assert.False(t, m.State().HasCredential)
	m.Restore(context.Background())
	assert.False(t, m.State().Loading)
	assert.Zero(t, api.profileCalls.Load())
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := storeWith(t, "")
		m := NewManager(&fakeAPI{}, store, log.Discard())

		result := m.Register(context.Background(), "new@b.c", "pw", "New User", "Acme")

		assert.True(t, result.Success)
		assert.Equal(t, "new@b.c", m.State().User.Email)
		token, _ := storedToken(t, store)
		assert.Equal(t, "T-new@b.c", token)
	})

	t.Run("duplicate email", func(t *testing.T) {
		api := &fakeAPI{loginErr: &platform.APIError{Kind: platform.AuthRejected, StatusCode: 400, Detail: "Email already registered"}}
		m := NewManager(api, storeWith(t, ""), log.Discard())

		result := m.Register(context.Background(), "dup@b.c", "pw", "Dup", "")
		assert.Equal(t, Result{Error: "Email already registered"}, result)
	})

	t.Run("generic fallback", func(t *testing.T) {
		api := &fakeAPI{loginErr: &platform.APIError{Kind: platform.NetworkFailure}}
		m := NewManager(api, storeWith(t, ""), log.Discard())

		result := m.Register(context.Background(), "x@b.c", "pw", "X", "")
		assert.Equal(t, Result{Error: "Registration failed"}, result)
	})
}

func TestLogout(t *testing.T) {
	store := storeWith(t, "")
	m := NewManager(&fakeAPI{}, store, log.Discard())
	require.True(t, m.Login(context.Background(), "a@b.c", "pw").Success)

	var notifications atomic.Int32
	m.Subscribe(func(State) { notifications.Add(1) })

	m.Logout()
	state := m.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, m.Token())
	_, ok := storedToken(t, store)
	assert.False(t, ok)
	assert.Equal(t, int32(1), notifications.Load())

	m.Logout()
	assert.Equal(t, state, m.State())
	assert.Equal(t, int32(1), notifications.Load(), "second logout must not notify")
}

func TestLogoutIgnoresStoreErrors(t *testing.T) {
	store := failingStore{Store: credstore.NewMemoryStore(), deleteErr: errors.New("read-only fs")}
	m := NewManager(&fakeAPI{}, store, log.Discard())
	require.True(t, m.Login(context.Background(), "a@b.c", "pw").Success)

	assert.NotPanics(t, m.Logout)
	assert.False(t, m.State().IsAuthenticated)
}

func TestLoginThenFreshManagerRestores(t *testing.T) {
	store := storeWith(t, "")
	first := NewManager(&fakeAPI{}, store, log.Discard())
	first.Restore(context.Background())
	require.True(t, first.Login(context.Background(), "a@b.c", "pw").Success)

	second := NewManager(&fakeAPI{}, store, log.Discard())
	second.Restore(context.Background())

	assert.Equal(t, first.State(), second.State())
}

func TestStaleProfileIsDiscarded(t *testing.T) {
	store := storeWith(t, "")
	api := &fakeAPI{}
	m := NewManager(api, store, log.Discard())

	// Logout lands while the profile request is in flight.
	api.profileHook = func(string) { m.Logout() }

	result := m.Login(context.Background(), "a@b.c", "pw")

	assert.Equal(t, Result{Error: "Login failed"}, result)
	assert.False(t, m.State().IsAuthenticated)
	assert.Empty(t, m.Token())
}

func TestSwitchingAccountsClearsOldProfile(t *testing.T) {
	m := NewManager(&fakeAPI{}, storeWith(t, ""), log.Discard())
	require.True(t, m.Login(context.Background(), "a@b.c", "pw").Success)

	var during State
	m.api.(*fakeAPI).profileHook = func(string) { during = m.State() }
	require.True(t, m.Login(context.Background(), "other@b.c", "pw").Success)

	assert.False(t, during.IsAuthenticated, "old profile must not pair with the new credential")
	assert.Equal(t, "other@b.c", m.State().User.Email)
}

func TestConcurrentLoginsLastWriteWins(t *testing.T) {
	store := storeWith(t, "")
	m := NewManager(&fakeAPI{}, store, log.Discard())
	m.Restore(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Login(context.Background(), fmt.Sprintf("user%d@b.c", i), "pw")
		}(i)
	}
	wg.Wait()

	state := m.State()
	token := m.Token()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "T-"+state.User.Email, token, "profile must belong to the bound credential")

	stored, ok := storedToken(t, store)
	assert.True(t, ok)
	assert.Equal(t, token, stored)
}

func TestRefresh(t *testing.T) {
	t.Run("not signed in", func(t *testing.T) {
		m := NewManager(&fakeAPI{}, storeWith(t, ""), log.Discard())
		err := m.Refresh(context.Background())
		assert.True(t, platform.IsKind(err, platform.AuthRejected))
	})

	t.Run("updates profile", func(t *testing.T) {
		api := &fakeAPI{}
		m := NewManager(api, storeWith(t, "T-a@b.c"), log.Discard())
		m.Restore(context.Background())

		require.NoError(t, m.Refresh(context.Background()))
		assert.Equal(t, int32(2), api.profileCalls.Load())
		assert.True(t, m.State().IsAuthenticated)
	})

	t.Run("failure logs out", func(t *testing.T) {
		api := &fakeAPI{}
		store := storeWith(t, "T-a@b.c")
		m := NewManager(api, store, log.Discard())
		m.Restore(context.Background())

		api.profileErr = &platform.APIError{Kind: platform.AuthRejected, StatusCode: 401}
		err := m.Refresh(context.Background())

		assert.Error(t, err)
		assert.False(t, m.State().IsAuthenticated)
		assert.False(t, m.State().Loading)
		_, ok := storedToken(t, store)
		assert.False(t, ok)
	})
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	m := NewManager(&fakeAPI{}, storeWith(t, ""), log.Discard())

	var calls atomic.Int32
	var last atomic.Value
	unsubscribe := m.Subscribe(func(s State) {
		calls.Add(1)
		last.Store(s)
	})

	m.Restore(context.Background())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, last.Load().(State).Loading)

	unsubscribe()
	m.Login(context.Background(), "a@b.c", "pw")
	assert.Equal(t, int32(1), calls.Load())
}

func TestStateIsACopy(t *testing.T) {
	m := NewManager(&fakeAPI{}, storeWith(t, ""), log.Discard())
	require.True(t, m.Login(context.Background(), "a@b.c", "pw").Success)

	state := m.State()
	state.User.Email = "mutated"
	assert.Equal(t, "a@b.c", m.State().User.Email)
}

func TestManagerIsTokenSource(t *testing.T) {
	var _ platform.TokenSource = (*Manager)(nil)
}

func TestLoginBeforeRestoreSettlesLoading(t *testing.T) {
	m := NewManager(&fakeAPI{}, storeWith(t, ""), log.Discard())

	require.True(t, m.Login(context.Background(), "a@b.c", "good").Success)

	state := m.State()
	assert.False(t, state.Loading)
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, guard.Outcome{Action: guard.Render, Target: guard.Dashboard},
		guard.Decide(state.Loading, state.IsAuthenticated, guard.Dashboard))
}

func TestRegisterBeforeRestoreReplacesStoredCredential(t *testing.T) {
	store := storeWith(t, "T-old@b.c")
	api := &fakeAPI{}
	m := NewManager(api, store, log.Discard())

	require.True(t, m.Register(context.Background(), "new@b.c", "pw", "New", "").Success)
	assert.Equal(t, int32(2), api.profileCalls.Load(), "restore validates the old credential first")

	// Restoration already happened and must not run again.
	m.Restore(context.Background())
	assert.Equal(t, int32(2), api.profileCalls.Load())
	assert.False(t, m.State().Loading)
	assert.Equal(t, "new@b.c", m.State().User.Email)
}

func TestSubscribersEndOnLatestState(t *testing.T) {
	m := NewManager(&fakeAPI{}, storeWith(t, ""), log.Discard())
	m.Restore(context.Background())

	var mu sync.Mutex
	var seen []State
	m.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.Login(context.Background(), fmt.Sprintf("user%d@b.c", i), "pw")
		}(i)
		go func() {
			defer wg.Done()
			m.Logout()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, m.State(), seen[len(seen)-1])
}

func TestLogoutClearsUnreadableCredential(t *testing.T) {
	inner := storeWith(t, "T-a@b.c")
	var notified atomic.Int32
	m := NewManager(&fakeAPI{}, failingStore{Store: inner, getErr: errors.New("corrupt")}, log.Discard())
	m.Subscribe(func(State) { notified.Add(1) })
	require.False(t, m.State().HasCredential)

	m.Logout()

	_, ok := storedToken(t, inner)
	assert.False(t, ok)
	assert.Zero(t, notified.Load(), "nothing changed in memory")
}
