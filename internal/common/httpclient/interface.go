package httpclient

import (
	"context"
)

// Doer is the interface implemented by gateway clients. Resource services
// and the session manager depend on this interface rather than a concrete
// client, so tests can route calls into an in-process handler.
type Doer interface {
	// Do makes an HTTP request with the given options. It never returns a
	// Go error: every outcome is communicated through the envelope.
	Do(ctx context.Context, opts RequestOptions) *Envelope

	// Get issues a GET request to the given path.
	Get(ctx context.Context, path string, queryParams map[string]string) *Envelope

	// Post issues a POST request with the given JSON body.
	Post(ctx context.Context, path string, body any) *Envelope

	// Put issues a PUT request with the given JSON body.
	Put(ctx context.Context, path string, body any) *Envelope

	// Delete issues a DELETE request to the given path.
	Delete(ctx context.Context, path string) *Envelope
}

// Compile-time check that Client satisfies the Doer interface.
var _ Doer = &Client{}
