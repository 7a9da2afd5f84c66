package api

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
)

// AuthService covers the authentication endpoints.
type AuthService struct {
	client httpclient.Doer
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries a registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the payload returned by login and register: the account and
// its bearer token.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// TokenResult is the payload returned by a token refresh.
type TokenResult struct {
	Token string `json:"token"`
}

// Login authenticates with email and password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (AuthResult, *httpclient.Envelope) {
	return decode[AuthResult](s.client.Post(ctx, "/auth/login", req))
}

// Register creates a new account. Registration does not authenticate.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (AuthResult, *httpclient.Envelope) {
	return decode[AuthResult](s.client.Post(ctx, "/auth/register", req))
}

// Me resolves the account behind the current bearer token.
func (s *AuthService) Me(ctx context.Context) (User, *httpclient.Envelope) {
	return decode[User](s.client.Get(ctx, "/auth/me", nil))
}

// Logout invalidates the current session server-side.
func (s *AuthService) Logout(ctx context.Context) *httpclient.Envelope {
	return s.client.Post(ctx, "/auth/logout", nil)
}

// RefreshToken exchanges the current token for a fresh one.
func (s *AuthService) RefreshToken(ctx context.Context) (TokenResult, *httpclient.Envelope) {
	return decode[TokenResult](s.client.Post(ctx, "/auth/refresh-token", nil))
}

// ForgotPassword starts a password reset for the given email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) *httpclient.Envelope {
	return s.client.Post(ctx, "/auth/forgot-password", map[string]string{"email": email})
}

// ResetPassword completes a password reset with the emailed token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) *httpclient.Envelope {
	return s.client.Post(ctx, "/auth/reset-password", map[string]string{
		"token":    token,
		"password": password,
	})
}
