package mockapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseboard/pulseboard/internal/common/httpx"
	"github.com/pulseboard/pulseboard/internal/common/uuid"
	"github.com/pulseboard/pulseboard/pkg/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type userIDContextKey struct{}

// userIDFromContext returns the authenticated user's ID placed in the
// context by the auth middleware.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDContextKey{}).(string)
	return id
}

// issueToken signs a bearer token for the given user.
func (s *Server) issueToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.GetTokenValidity())),
	})
	return token.SignedString([]byte(s.cfg.Auth.JWTSecret))
}

// verifyToken parses and validates a bearer token, returning the subject.
func (s *Server) verifyToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", httpx.ErrUnauthorized("invalid or expired token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", httpx.ErrUnauthorized("invalid or expired token")
	}
	// Subjects are always record IDs; anything else is a forged token.
	id, err := uuid.Parse(sub)
	if err != nil || id == uuid.Nil {
		return "", httpx.ErrUnauthorized("invalid or expired token")
	}
	return sub, nil
}

// requireAuth rejects requests without a valid bearer token and stores the
// subject in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			httpx.ErrUnauthorized("missing bearer token").Send(w)
			return
		}
		userID, err := s.verifyToken(tokenStr)
		if err != nil {
			httpx.ErrUnauthorized("invalid or expired token").Send(w)
			return
		}
		if _, err := s.store.GetUser(userID); err != nil {
			httpx.ErrUnauthorized("invalid or expired token").Send(w)
			return
		}
		ctx := context.WithValue(r.Context(), userIDContextKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) loginHandler(r *http.Request) (*httpx.Response, error) {
	var req loginRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("email and password are required")
	}

	user, hash, err := s.store.FindUserByEmail(req.Email)
	if err != nil {
		return nil, httpx.ErrUnauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil {
		return nil, httpx.ErrUnauthorized("invalid email or password")
	}
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	log.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("user logged in")
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.AuthResult{User: user, Token: token},
		Message:    "Logged in",
	}, nil
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (s *Server) registerHandler(r *http.Request) (*httpx.Response, error) {
	var req registerRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("name, email and a password of at least 6 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(api.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  "user",
	}, hash)
	if err != nil {
		return nil, err
	}
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	log.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("user registered")
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Response:   api.AuthResult{User: user, Token: token},
		Message:    "Account created",
	}, nil
}

func (s *Server) meHandler(r *http.Request) (*httpx.Response, error) {
	user, err := s.store.GetUser(userIDFromContext(r.Context()))
	if err != nil {
		return nil, httpx.ErrUnauthorized("invalid or expired token")
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: user}, nil
}

func (s *Server) logoutHandler(r *http.Request) (*httpx.Response, error) {
	// Tokens are stateless; logout only exists so clients have a hook to
	// call before discarding their token.
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Message:    "Logged out",
	}, nil
}

func (s *Server) refreshTokenHandler(r *http.Request) (*httpx.Response, error) {
	token, err := s.issueToken(userIDFromContext(r.Context()))
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.TokenResult{Token: token},
	}, nil
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) forgotPasswordHandler(r *http.Request) (*httpx.Response, error) {
	var req forgotPasswordRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("a valid email is required")
	}

	// The response never discloses whether the email exists; the reset
	// token is only created for known accounts.
	if user, _, err := s.store.FindUserByEmail(req.Email); err == nil {
		token := s.store.CreateResetToken(user.ID)
		log.Ctx(r.Context()).Info().Str("user_id", user.ID).Str("reset_token", token).
			Msg("password reset requested")
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Message:    "If the email is registered, a reset link has been sent",
	}, nil
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (s *Server) resetPasswordHandler(r *http.Request) (*httpx.Response, error) {
	var req resetPasswordRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("a reset token and a password of at least 6 characters are required")
	}

	userID, err := s.store.ConsumeResetToken(req.Token)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid or expired reset token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetPassword(userID, hash); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Message:    "Password updated",
	}, nil
}
