// Package httpclient provides the HTTP gateway used for every call to the
// Pulseboard backend. It builds URLs, attaches bearer-token headers,
// enforces a per-call deadline, and normalizes every outcome into a single
// response envelope. Session expiry (HTTP 401) is detected here: the
// persisted token is cleared and the envelope is flagged SessionExpired so
// the application shell can redirect to login.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/tidwall/gjson"

	"github.com/pulseboard/pulseboard/internal/common/apperrors"
)

// DefaultTimeout is the per-call deadline applied when no override is set.
const DefaultTimeout = 15 * time.Second

// Messages surfaced through the envelope for failures the backend did not
// describe itself.
const (
	msgTimeout        = "Request timeout"
	msgSessionExpired = "Your session has expired. Please sign in again"
	msgRequestFailed  = "Unable to complete the request"
)

var (
	// ErrRequestFailed is returned by Envelope.Decode for failed calls.
	ErrRequestFailed = apperrors.New("request failed")
	// ErrNoData is returned by Envelope.Decode when a successful call
	// carried no payload.
	ErrNoData = apperrors.New("response carried no data")
)

// Configurator supplies server configuration and credential state to the
// client. The token is re-read on every call and cleared through the same
// interface when the server reports it expired.
type Configurator interface {
	GetServerURL() string
	GetToken() string
	GetTokenExpiry() time.Time
	ClearToken() error
}

// Client is the gateway for requests to the Pulseboard REST API.
type Client struct {
	config     Configurator
	httpClient *http.Client
	timeout    time.Duration
	getRetries uint
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries enables transparent retries of GET requests that fail at the
// network level. HTTP error responses are never retried.
func WithRetries(n uint) Option {
	return func(c *Client) {
		c.getRetries = n
	}
}

// WithTransport overrides the underlying HTTP transport. Used by the test
// client to route requests into an in-process handler.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// NewClient creates a gateway client using the provided configuration.
// Cookies are carried across calls within the client's lifetime.
func NewClient(config Configurator, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		config:     config,
		httpClient: &http.Client{Jar: jar},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOptions describes a single gateway call. Body is serialized as
// JSON and only sent for non-GET methods. QueryParams keys with empty
// values are dropped.
type RequestOptions struct {
	Method      string
	Path        string
	QueryParams map[string]string
	Body        any
}

// Do makes an HTTP request with the given options and normalizes the
// outcome into an envelope. It never returns a Go error: timeouts, network
// failures, parse failures, and HTTP error statuses all surface as
// Success=false envelopes. On 401 the persisted token is cleared and the
// envelope is flagged SessionExpired.
func (c *Client) Do(ctx context.Context, opts RequestOptions) *Envelope {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return failure(err.Error(), msgRequestFailed, 0)
	}

	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := c.send(ctx, req, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return failure(err.Error(), msgTimeout, 0)
		}
		return failure(err.Error(), msgRequestFailed, 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(err.Error(), msgRequestFailed, 0)
	}

	return c.normalize(resp, body)
}

// buildRequest assembles the URL, body, and headers for a call. The bearer
// token is attached only while unexpired; a token without a recorded
// expiry is attached as-is.
func (c *Client) buildRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var bodyReader io.Reader
	if opts.Body != nil && opts.Method != http.MethodGet {
		raw, err := jsoniterStd.Marshal(opts.Body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token := c.config.GetToken(); token != "" {
		expiry := c.config.GetTokenExpiry()
		if expiry.IsZero() || time.Now().Before(expiry) {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// send executes the request, retrying GETs on network-level failures when
// retries are enabled. HTTP error responses are returned untouched.
func (c *Client) send(ctx context.Context, req *http.Request, opts RequestOptions) (*http.Response, error) {
	if c.getRetries == 0 || opts.Method != http.MethodGet {
		return c.httpClient.Do(req)
	}
	return retry.DoWithData(
		func() (*http.Response, error) {
			return c.httpClient.Do(req)
		},
		retry.Context(ctx),
		retry.Attempts(c.getRetries+1),
		retry.LastErrorOnly(true),
	)
}

// normalize maps an HTTP response onto the envelope contract.
func (c *Client) normalize(resp *http.Response, body []byte) *Envelope {
	if resp.StatusCode == http.StatusUnauthorized {
		// Token is stale server-side; drop it regardless of local expiry.
		c.config.ClearToken()
		env := failure("Unauthorized", msgSessionExpired, http.StatusUnauthorized)
		env.SessionExpired = true
		return env
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errText := http.StatusText(resp.StatusCode)
		message := msgRequestFailed
		if gjson.ValidBytes(body) {
			parsed := gjson.ParseBytes(body)
			if v := parsed.Get("error"); v.Exists() {
				errText = v.String()
			}
			if v := parsed.Get("message"); v.Exists() {
				message = v.String()
			}
		}
		return failure(errText, message, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return success(nil, "")
	}

	if !gjson.ValidBytes(body) {
		return failure("invalid JSON in response body", msgRequestFailed, 0)
	}

	parsed := gjson.ParseBytes(body)
	data := body
	if v := parsed.Get("data"); v.Exists() {
		data = []byte(v.Raw)
	}
	return success(data, parsed.Get("message").String())
}

// Get issues a GET request to the given path.
func (c *Client) Get(ctx context.Context, path string, queryParams map[string]string) *Envelope {
	return c.Do(ctx, RequestOptions{
		Method:      http.MethodGet,
		Path:        path,
		QueryParams: queryParams,
	})
}

// Post issues a POST request with the given JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) *Envelope {
	return c.Do(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put issues a PUT request with the given JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) *Envelope {
	return c.Do(ctx, RequestOptions{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Delete issues a DELETE request to the given path.
func (c *Client) Delete(ctx context.Context, path string) *Envelope {
	return c.Do(ctx, RequestOptions{
		Method: http.MethodDelete,
		Path:   path,
	})
}
