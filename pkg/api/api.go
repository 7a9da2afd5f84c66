package api

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
)

// API aggregates the typed services behind a single entry point.
type API struct {
	Auth      *AuthService
	Users     *UserService
	Orders    *OrderService
	Products  *ProductService
	Analytics *AnalyticsService

	client httpclient.Doer
}

// New creates the full service surface on top of a gateway client.
func New(client httpclient.Doer) *API {
	return &API{
		Auth:      &AuthService{client: client},
		Users:     &UserService{client: client},
		Orders:    &OrderService{client: client},
		Products:  &ProductService{client: client},
		Analytics: &AnalyticsService{client: client},
		client:    client,
	}
}

// ServerStatus is the payload of the public status endpoint.
type ServerStatus struct {
	ServerVersion string `json:"serverVersion"`
	APIVersion    string `json:"apiVersion"`
	ServerTime    string `json:"serverTime"`
}

// Status retrieves the server's version and clock. The endpoint is public
// and does not require authentication.
func (a *API) Status(ctx context.Context) (ServerStatus, *httpclient.Envelope) {
	return decode[ServerStatus](a.client.Get(ctx, "/status", nil))
}

// decode unmarshals a successful envelope into T. On failure or decode
// error, it returns the zero value; the envelope remains the source of
// truth for what went wrong.
func decode[T any](env *httpclient.Envelope) (T, *httpclient.Envelope) {
	var out T
	if !env.Success {
		return out, env
	}
	if len(env.Data) == 0 {
		return out, env
	}
	if err := env.Decode(&out); err != nil {
		var zero T
		failed := *env
		failed.Success = false
		failed.Error = err.Error()
		return zero, &failed
	}
	return out, env
}
