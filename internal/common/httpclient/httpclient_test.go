package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConfig is an in-memory Configurator for tests.
type stubConfig struct {
	mu        sync.Mutex
	serverURL string
	token     string
	expiry    time.Time
	cleared   int
}

func (s *stubConfig) GetServerURL() string { return s.serverURL }

func (s *stubConfig) GetToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubConfig) GetTokenExpiry() time.Time { return s.expiry }

func (s *stubConfig) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

func TestDoSuccessEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"id":"u1","name":"Ada"},"message":"ok"}`)
	}))
	defer srv.Close()

	client := NewClient(&stubConfig{serverURL: srv.URL})
	env := client.Get(context.Background(), "/users/u1", nil)

	require.True(t, env.Success)
	assert.Empty(t, env.Error)
	assert.Equal(t, "ok", env.Message)

	var user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, env.Decode(&user))
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Ada", user.Name)
}

func TestDoUnwrapsWholeBodyWithoutDataField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"u2","name":"Grace"}`)
	}))
	defer srv.Close()

	client := NewClient(&stubConfig{serverURL: srv.URL})
	env := client.Get(context.Background(), "/users/u2", nil)

	require.True(t, env.Success)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, env.Decode(&user))
	assert.Equal(t, "u2", user.ID)
}

func TestDoNoContent(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "204 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(&stubConfig{serverURL: srv.URL})
			env := client.Delete(context.Background(), "/users/u1")

			assert.True(t, env.Success)
			assert.Nil(t, env.Data)
			assert.ErrorIs(t, env.Decode(&struct{}{}), ErrNoData)
		})
	}
}

func TestDoUnauthorizedClearsTokenOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := &stubConfig{serverURL: srv.URL, token: "stale-token"}
	client := NewClient(cfg)
	env := client.Get(context.Background(), "/users", nil)

	require.False(t, env.Success)
	assert.True(t, env.SessionExpired)
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
	assert.NotEmpty(t, env.Message)
	assert.Empty(t, cfg.GetToken())
	assert.Equal(t, 1, cfg.cleared)
}

func TestDoHTTPErrorWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error":"email taken","message":"That email is already registered"}`)
	}))
	defer srv.Close()

	client := NewClient(&stubConfig{serverURL: srv.URL})
	env := client.Post(context.Background(), "/users", map[string]string{"email": "a@b.c"})

	require.False(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Equal(t, http.StatusConflict, env.StatusCode)
	assert.Equal(t, "email taken", env.Error)
	assert.Equal(t, "That email is already registered", env.ErrorMessage())
}

func TestDoHTTPErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>upstream dead</html>")
	}))
	defer srv.Close()

	client := NewClient(&stubConfig{serverURL: srv.URL})
	env := client.Get(context.Background(), "/users", nil)

	require.False(t, env.Success)
	assert.Equal(t, http.StatusBadGateway, env.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), env.Error)
}

func TestDoTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(&stubConfig{serverURL: srv.URL}, WithTimeout(50*time.Millisecond))
	start := time.Now()
	env := client.Get(context.Background(), "/analytics/dashboard", nil)

	require.False(t, env.Success)
	assert.Zero(t, env.StatusCode)
	assert.Equal(t, "Request timeout", env.Message)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(&stubConfig{serverURL: srv.URL})
	env := client.Get(context.Background(), "/users", nil)

	require.False(t, env.Success)
	assert.Zero(t, env.StatusCode)
	assert.NotEmpty(t, env.Error)
	assert.NotEmpty(t, env.Message)
}

func TestDoInvalidJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer srv.Close()

	client := NewClient(&stubConfig{serverURL: srv.URL})
	env := client.Get(context.Background(), "/users", nil)

	require.False(t, env.Success)
	assert.Zero(t, env.StatusCode)
	assert.NotEmpty(t, env.Error)
}

func TestBearerTokenAttachment(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		expiry     time.Time
		wantHeader string
	}{
		{
			name:       "token without expiry is sent",
			token:      "tok-1",
			wantHeader: "Bearer tok-1",
		},
		{
			name:       "unexpired token is sent",
			token:      "tok-2",
			expiry:     time.Now().Add(time.Hour),
			wantHeader: "Bearer tok-2",
		},
		{
			name:       "expired token is withheld",
			token:      "tok-3",
			expiry:     time.Now().Add(-time.Hour),
			wantHeader: "",
		},
		{
			name:       "no token",
			wantHeader: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
			}))
			defer srv.Close()

			cfg := &stubConfig{serverURL: srv.URL, token: tt.token, expiry: tt.expiry}
			NewClient(cfg).Get(context.Background(), "/users", nil)
			assert.Equal(t, tt.wantHeader, got)
		})
	}
}

func TestQueryParamsDropEmptyValues(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	client := NewClient(&stubConfig{serverURL: srv.URL})
	client.Get(context.Background(), "/users", map[string]string{
		"page":   "2",
		"search": "",
		"role":   "admin",
	})

	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "role=admin")
	assert.NotContains(t, gotQuery, "search")
}

func TestHTTPErrorsAreNotRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(&stubConfig{serverURL: srv.URL}, WithRetries(3))
	env := client.Get(context.Background(), "/users", nil)

	require.False(t, env.Success)
	assert.Equal(t, 1, hits)
}

// flakyTransport fails a fixed number of round trips before delegating.
type flakyTransport struct {
	failures int
	inner    http.RoundTripper
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("transient network error")
	}
	return f.inner.RoundTrip(req)
}

func TestNetworkFailuresAreRetriedForGET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	client := NewClient(
		&stubConfig{serverURL: srv.URL},
		WithRetries(2),
		WithTransport(&flakyTransport{failures: 2, inner: http.DefaultTransport}),
	)
	env := client.Get(context.Background(), "/users", nil)
	assert.True(t, env.Success)
}

func TestTestClientSharesEnvelopeSemantics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"items":[],"total":0,"page":1,"pageSize":10,"totalPages":0}}`)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	cfg := &stubConfig{serverURL: "http://pulseboard.test", token: "tok"}
	client := NewTestClient(cfg, mux)

	env := client.Get(context.Background(), "/orders", nil)
	require.True(t, env.Success)

	env = client.Get(context.Background(), "/auth/me", nil)
	require.False(t, env.Success)
	assert.True(t, env.SessionExpired)
	assert.Empty(t, cfg.GetToken())
}
