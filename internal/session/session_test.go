package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
	"github.com/pulseboard/pulseboard/pkg/api"
)

// memStore implements both the gateway Configurator and the session
// TokenStore over in-memory state.
type memStore struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
}

func (s *memStore) GetServerURL() string { return "http://pulseboard.test" }

func (s *memStore) GetToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *memStore) GetTokenExpiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiry
}

func (s *memStore) SaveToken(token string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiry = expiry
	return nil
}

func (s *memStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
	return nil
}

type recordedEffects struct {
	notifications []Notification
	navigations   []View
	current       View
}

func (r *recordedEffects) Notify(n Notification) { r.notifications = append(r.notifications, n) }
func (r *recordedEffects) CurrentView() View     { return r.current }
func (r *recordedEffects) NavigateTo(v View) {
	r.navigations = append(r.navigations, v)
	r.current = v
}

func (r *recordedEffects) lastNotification() Notification {
	if len(r.notifications) == 0 {
		return Notification{}
	}
	return r.notifications[len(r.notifications)-1]
}

func signToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// authBackend is a minimal in-process auth API for session tests.
func authBackend(t *testing.T, hits *map[string]int) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	count := func(path string) {
		if hits != nil {
			(*hits)[path]++
		}
	}
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		count("/auth/login")
		var req api.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "admin@pulseboard.io" || req.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := signToken(t, time.Now().Add(time.Hour))
		fmt.Fprintf(w, `{"data":{"user":{"id":"u1","name":"Ada","email":"admin@pulseboard.io","role":"admin"},"token":%q}}`, token)
	})
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		count("/auth/register")
		fmt.Fprint(w, `{"data":{"user":{"id":"u2","name":"New","email":"new@pulseboard.io","role":"viewer"}},"message":"account created"}`)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		count("/auth/me")
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":{"id":"u1","name":"Ada","email":"admin@pulseboard.io","role":"admin"}}`)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		count("/auth/logout")
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newTestManager(t *testing.T, store *memStore, hits *map[string]int) (*Manager, *recordedEffects) {
	t.Helper()
	client := httpclient.NewTestClient(store, authBackend(t, hits))
	effects := &recordedEffects{current: ViewLogin}
	mgr := NewManager(api.New(client).Auth, store, effects, effects)
	return mgr, effects
}

func TestBootstrapWithoutToken(t *testing.T) {
	hits := map[string]int{}
	store := &memStore{}
	mgr, _ := newTestManager(t, store, &hits)

	assert.True(t, mgr.IsLoading())
	mgr.Bootstrap(context.Background())

	assert.False(t, mgr.IsLoading())
	assert.False(t, mgr.IsAuthenticated())
	assert.Nil(t, mgr.CurrentUser())
	assert.Empty(t, hits, "no network call expected without a token")
}

func TestBootstrapWithValidToken(t *testing.T) {
	store := &memStore{}
	store.SaveToken(signToken(t, time.Now().Add(time.Hour)), time.Now().Add(time.Hour))
	mgr, _ := newTestManager(t, store, nil)

	mgr.Bootstrap(context.Background())

	assert.True(t, mgr.IsAuthenticated())
	assert.False(t, mgr.IsLoading())
	require.NotNil(t, mgr.CurrentUser())
	assert.Equal(t, "admin@pulseboard.io", mgr.CurrentUser().Email)
}

func TestBootstrapWithRejectedToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	store := &memStore{}
	store.SaveToken("revoked-token", time.Time{})
	client := httpclient.NewTestClient(store, mux)
	effects := &recordedEffects{current: ViewLogin}
	mgr := NewManager(api.New(client).Auth, store, effects, effects)

	mgr.Bootstrap(context.Background())

	assert.False(t, mgr.IsAuthenticated())
	assert.False(t, mgr.IsLoading())
	assert.Empty(t, store.GetToken())
}

func TestLoginValidationFailsFast(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "hunter22"},
		{"empty password", "admin@pulseboard.io", ""},
		{"both empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := map[string]int{}
			store := &memStore{}
			mgr, effects := newTestManager(t, store, &hits)
			mgr.Bootstrap(context.Background())

			err := mgr.Login(context.Background(), tt.email, tt.password)

			assert.ErrorIs(t, err, ErrValidation)
			assert.False(t, mgr.IsAuthenticated())
			assert.Zero(t, hits["/auth/login"], "no network call expected")
			assert.Equal(t, VariantDestructive, effects.lastNotification().Variant)
		})
	}
}

func TestLoginFailure(t *testing.T) {
	store := &memStore{}
	mgr, effects := newTestManager(t, store, nil)
	mgr.Bootstrap(context.Background())

	err := mgr.Login(context.Background(), "admin@pulseboard.io", "wrong")

	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.False(t, mgr.IsAuthenticated())
	assert.Empty(t, store.GetToken())
	last := effects.lastNotification()
	assert.Equal(t, VariantDestructive, last.Variant)
	assert.NotEmpty(t, last.Description)
	assert.NotContains(t, effects.navigations, ViewDashboard)
}

func TestLoginSuccess(t *testing.T) {
	store := &memStore{}
	mgr, effects := newTestManager(t, store, nil)
	mgr.Bootstrap(context.Background())

	err := mgr.Login(context.Background(), "admin@pulseboard.io", "hunter22")

	require.NoError(t, err)
	assert.True(t, mgr.IsAuthenticated())
	assert.NotEmpty(t, store.GetToken())
	assert.False(t, store.GetTokenExpiry().IsZero(), "expiry peeked from the JWT")
	require.NotNil(t, mgr.CurrentUser())
	assert.Equal(t, "Ada", mgr.CurrentUser().Name)
	assert.Equal(t, ViewDashboard, effects.current)
	assert.NotEqual(t, VariantDestructive, effects.lastNotification().Variant)
}

func TestRegisterMismatchedConfirmation(t *testing.T) {
	hits := map[string]int{}
	store := &memStore{}
	mgr, effects := newTestManager(t, store, &hits)
	mgr.Bootstrap(context.Background())

	err := mgr.Register(context.Background(), "New", "new@pulseboard.io", "pass-one", "pass-two")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, hits["/auth/register"], "no network call expected")
	assert.Contains(t, effects.lastNotification().Description, "match")
}

func TestRegisterSuccessDoesNotAuthenticate(t *testing.T) {
	store := &memStore{}
	mgr, effects := newTestManager(t, store, nil)
	mgr.Bootstrap(context.Background())

	err := mgr.Register(context.Background(), "New", "new@pulseboard.io", "hunter22", "hunter22")

	require.NoError(t, err)
	assert.False(t, mgr.IsAuthenticated())
	assert.Empty(t, store.GetToken())
	assert.Equal(t, ViewLogin, effects.current)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	// backend that fails every call
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	store := &memStore{}
	store.SaveToken(signToken(t, time.Now().Add(time.Hour)), time.Now().Add(time.Hour))
	client := httpclient.NewTestClient(store, mux)
	effects := &recordedEffects{current: ViewDashboard}
	mgr := NewManager(api.New(client).Auth, store, effects, effects)
	mgr.Bootstrap(context.Background())

	mgr.Logout(context.Background())

	assert.False(t, mgr.IsAuthenticated())
	assert.Nil(t, mgr.CurrentUser())
	assert.Empty(t, store.GetToken())
	assert.Equal(t, ViewLogin, effects.current)
}

func TestHandleExpiry(t *testing.T) {
	store := &memStore{}
	mgr, effects := newTestManager(t, store, nil)
	mgr.Bootstrap(context.Background())
	effects.current = ViewDashboard
	effects.navigations = nil

	expired := &httpclient.Envelope{Success: false, StatusCode: 401, SessionExpired: true}
	assert.True(t, mgr.HandleExpiry(expired))
	assert.Equal(t, []View{ViewLogin}, effects.navigations)

	// already at login: no second navigation
	assert.True(t, mgr.HandleExpiry(expired))
	assert.Equal(t, []View{ViewLogin}, effects.navigations)

	ok := &httpclient.Envelope{Success: true}
	assert.False(t, mgr.HandleExpiry(ok))
	assert.False(t, mgr.HandleExpiry(nil))
}
