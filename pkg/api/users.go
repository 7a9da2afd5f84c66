package api

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
)

// UserService covers the user management endpoints.
type UserService struct {
	client httpclient.Doer
}

// UserListOptions are the filters forwarded to the user list endpoint.
// Zero values are dropped from the query string.
type UserListOptions struct {
	PageOptions
	Search string
	Role   string
	Status string
}

func (o UserListOptions) queryParams() map[string]string {
	q := map[string]string{}
	o.PageOptions.apply(q)
	q["search"] = o.Search
	q["role"] = o.Role
	q["status"] = o.Status
	return q
}

// UserCreate is the payload for creating a user.
type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserUpdate is the payload for updating a user. Nil fields are omitted and
// left unchanged by the backend.
type UserUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// List retrieves a page of users.
func (s *UserService) List(ctx context.Context, opts UserListOptions) (Paginated[User], *httpclient.Envelope) {
	return decode[Paginated[User]](s.client.Get(ctx, "/users", opts.queryParams()))
}

// Get retrieves a single user by ID.
func (s *UserService) Get(ctx context.Context, id string) (User, *httpclient.Envelope) {
	return decode[User](s.client.Get(ctx, "/users/"+id, nil))
}

// Create creates a user.
func (s *UserService) Create(ctx context.Context, req UserCreate) (User, *httpclient.Envelope) {
	return decode[User](s.client.Post(ctx, "/users", req))
}

// Update applies a partial update to a user.
func (s *UserService) Update(ctx context.Context, id string, req UserUpdate) (User, *httpclient.Envelope) {
	return decode[User](s.client.Put(ctx, "/users/"+id, req))
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id string) *httpclient.Envelope {
	return s.client.Delete(ctx, "/users/"+id)
}

// Export exports users in the given format ("csv" by default).
func (s *UserService) Export(ctx context.Context, format string) (ExportResult, *httpclient.Envelope) {
	if format == "" {
		format = "csv"
	}
	return decode[ExportResult](s.client.Get(ctx, "/users/export", map[string]string{"format": format}))
}
