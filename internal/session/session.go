// Package session owns the client-side authentication lifecycle: the
// current user, the persisted bearer token, and the transitions between
// anonymous and authenticated states. Side effects (notifications,
// navigation) are delegated to interfaces implemented by the application
// shell, keeping the state machine testable in isolation.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pulseboard/pulseboard/internal/common/apperrors"
	"github.com/pulseboard/pulseboard/internal/common/httpclient"
	"github.com/pulseboard/pulseboard/pkg/api"
)

// State is the session lifecycle state.
type State int

// Session states. Unknown covers the window between process start and the
// completion of Bootstrap; route guards show a progress state while the
// session is Unknown.
const (
	Unknown State = iota
	Anonymous
	Authenticated
)

// Errors surfaced by session operations. Validation errors are raised
// before any network call is made.
var (
	ErrValidation     = apperrors.New("validation failed")
	ErrLoginFailed    = apperrors.New("login failed")
	ErrRegisterFailed = apperrors.New("registration failed")
)

// Fallback messages used when the backend does not supply one.
const (
	msgInvalidCredentials = "invalid email or password"
	msgRegisterFailed     = "Unable to create the account. Please try again later"
)

// TokenStore persists the bearer credential across sessions. An empty token
// means anonymous.
type TokenStore interface {
	GetToken() string
	SaveToken(token string, expiry time.Time) error
	ClearToken() error
}

// Manager is the session state machine. All state access is guarded by a
// single mutex so overlapping operations (a logout racing a login) cannot
// interleave token writes.
type Manager struct {
	mu        sync.Mutex
	state     State
	user      *api.User
	auth      *api.AuthService
	store     TokenStore
	notifier  Notifier
	navigator Navigator
	validate  *validator.Validate
}

// NewManager creates a session manager in the Unknown state. Callers run
// Bootstrap before consulting the guard predicates.
func NewManager(auth *api.AuthService, store TokenStore, notifier Notifier, navigator Navigator) *Manager {
	return &Manager{
		state:     Unknown,
		auth:      auth,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		validate:  validator.New(),
	}
}

// Bootstrap resolves the initial session state from the persisted token.
// No token settles Anonymous without any network call. A present token is
// verified with a who-am-I call; rejection clears the token.
func (m *Manager) Bootstrap(ctx context.Context) {
	token := m.store.GetToken()
	if token == "" {
		m.settle(Anonymous, nil)
		return
	}

	user, env := m.auth.Me(ctx)
	if !env.Success {
		m.store.ClearToken()
		m.settle(Anonymous, nil)
		return
	}
	m.settle(Authenticated, &user)
}

type loginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Login authenticates with the given credentials. Empty fields fail fast
// without touching the network. On success the token is persisted, the
// user populated, and the shell navigated to the dashboard. On failure the
// session stays anonymous and an error notification is surfaced.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := m.validate.Struct(loginForm{Email: email, Password: password}); err != nil {
		m.notifier.Notify(Notification{
			Title:       "Sign in failed",
			Description: "Email and password are required",
			Variant:     VariantDestructive,
		})
		return ErrValidation.Msg("email and password are required")
	}

	result, env := m.auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if !env.Success {
		msg := env.ErrorMessage()
		if msg == "" {
			msg = msgInvalidCredentials
		}
		m.notifier.Notify(Notification{
			Title:       "Sign in failed",
			Description: msg,
			Variant:     VariantDestructive,
		})
		m.settle(Anonymous, nil)
		return ErrLoginFailed.Msg(msg)
	}

	expiry := tokenExpiry(result.Token)
	if err := m.store.SaveToken(result.Token, expiry); err != nil {
		m.notifier.Notify(Notification{
			Title:       "Sign in failed",
			Description: "Unable to save the session",
			Variant:     VariantDestructive,
		})
		m.settle(Anonymous, nil)
		return ErrLoginFailed.Err(err)
	}

	m.settle(Authenticated, &result.User)
	m.notifier.Notify(Notification{
		Title:       "Signed in",
		Description: "Welcome back, " + result.User.Name,
	})
	m.navigator.NavigateTo(ViewDashboard)
	return nil
}

type registerForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Confirm  string `validate:"required,eqfield=Password"`
}

// Register creates a new account. Validation failures (missing fields,
// mismatched confirmation) fail fast without a network call. Registration
// never authenticates: on success the shell is navigated to the login view.
func (m *Manager) Register(ctx context.Context, name, email, password, confirm string) error {
	form := registerForm{Name: name, Email: email, Password: password, Confirm: confirm}
	if err := m.validate.Struct(form); err != nil {
		desc := "All fields are required"
		if password != confirm {
			desc = "Passwords do not match"
		}
		m.notifier.Notify(Notification{
			Title:       "Registration failed",
			Description: desc,
			Variant:     VariantDestructive,
		})
		return ErrValidation.Msg(desc)
	}

	_, env := m.auth.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
	if !env.Success {
		msg := env.ErrorMessage()
		if msg == "" {
			msg = msgRegisterFailed
		}
		m.notifier.Notify(Notification{
			Title:       "Registration failed",
			Description: msg,
			Variant:     VariantDestructive,
		})
		return ErrRegisterFailed.Msg(msg)
	}

	m.notifier.Notify(Notification{
		Title:       "Account created",
		Description: "You can sign in now",
	})
	m.navigator.NavigateTo(ViewLogin)
	return nil
}

// Logout destroys the session. The backend call is best-effort: the local
// teardown (token cleared, user dropped, navigation to login) happens
// regardless of network conditions and never fails.
func (m *Manager) Logout(ctx context.Context) {
	if m.store.GetToken() != "" {
		m.auth.Logout(ctx)
	}
	m.store.ClearToken()
	m.settle(Anonymous, nil)
	m.notifier.Notify(Notification{
		Title:       "Signed out",
		Description: "Your session has ended",
	})
	m.navigator.NavigateTo(ViewLogin)
}

// HandleExpiry reacts to a gateway envelope flagged SessionExpired: the
// session settles Anonymous (the gateway already cleared the token) and
// the shell is redirected to the login view unless it is already there.
// Returns true when the envelope indicated an expired session.
func (m *Manager) HandleExpiry(env *httpclient.Envelope) bool {
	if env == nil || !env.SessionExpired {
		return false
	}
	m.settle(Anonymous, nil)
	if m.navigator.CurrentView() != ViewLogin {
		m.navigator.NavigateTo(ViewLogin)
	}
	return true
}

// IsAuthenticated reports whether the session is authenticated. Protected
// views require true; public-only views require false.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Authenticated
}

// IsLoading reports whether the session state is still being resolved.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Unknown
}

// CurrentUser returns the authenticated user, or nil when anonymous.
func (m *Manager) CurrentUser() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) settle(state State, user *api.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.user = user
}

// tokenExpiry peeks at the token's exp claim without verifying the
// signature. Verification is the server's job; the client only uses the
// expiry to avoid sending tokens it knows are stale.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
