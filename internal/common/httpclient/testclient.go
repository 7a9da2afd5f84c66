package httpclient

import (
	"net/http"
	"net/http/httptest"
)

// handlerTransport is an http.RoundTripper that serves requests directly
// from an in-process handler using httptest.NewRecorder, without opening a
// network listener. It keeps the envelope normalization path identical
// between production and test clients.
type handlerTransport struct {
	handler http.Handler
}

// RoundTrip implements http.RoundTripper.
func (t *handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rr := httptest.NewRecorder()
	t.handler.ServeHTTP(rr, req)
	return rr.Result(), nil
}

// NewTestClient creates a gateway client that routes every request into the
// given handler instead of the network. All envelope semantics (timeout,
// 401 token clearing, data unwrapping) behave exactly as in NewClient.
func NewTestClient(config Configurator, handler http.Handler, opts ...Option) *Client {
	opts = append(opts, WithTransport(&handlerTransport{handler: handler}))
	return NewClient(config, opts...)
}
