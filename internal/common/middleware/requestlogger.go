// Package middleware provides HTTP middleware components for request
// logging, timeout handling, and panic recovery. It integrates with zerolog
// for structured logging and supports request tracing through unique
// request IDs.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pulseboard/pulseboard/internal/common/logtrace"
	"github.com/pulseboard/pulseboard/internal/common/uuid"
)

// RequestIDHeader is the response header carrying the request ID.
const RequestIDHeader = "X-Pulseboard-Request-ID"

// RequestLogger logs incoming requests and adds a unique request ID to both
// the request context and response headers. It logs the URL, method, path,
// remote IP, and protocol, and the total duration on completion.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		requestID := newRequestID()
		ctx = logtrace.WithRequestID(ctx, requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)

		w.Header().Set(RequestIDHeader, requestID)

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		log.Ctx(ctx).Info().Fields(map[string]any{
			"requestURL":    fmt.Sprintf("%s://%s%s", scheme, r.Host, r.RequestURI),
			"requestMethod": r.Method,
			"requestPath":   r.URL.Path,
			"remoteIP":      r.RemoteAddr,
			"proto":         r.Proto,
		}).Msg("incoming request")

		defer func() {
			log.Ctx(ctx).Info().
				Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
				Msg("request completed")
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newRequestID generates a unique request identifier, falling back to a
// timestamp-based ID if UUID generation fails.
func newRequestID() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
