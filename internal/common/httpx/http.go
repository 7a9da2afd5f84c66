// Package httpx provides HTTP request/response handling utilities for the
// API surface. Handlers return a Response describing the payload; the
// wrapper turns it into the wire envelope ({data, message} on success,
// {error, message} on failure) and maps application errors to status codes.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pulseboard/pulseboard/internal/common/apperrors"
)

// GetRequestData parses a JSON request body into the provided structure.
// Only supports POST and PUT methods. Returns an error if the request body
// is empty or cannot be parsed.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseRequest()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseRequest()
	}
	return nil
}

// Response represents a handler result with configurable status code,
// payload, and optional user-facing message. The payload is wrapped in a
// {data, message} envelope unless ContentType overrides JSON handling.
type Response struct {
	StatusCode  int
	Location    string
	Response    any
	Message     string
	ContentType string
	Raw         []byte // used instead of Response for non-JSON bodies
}

// RequestHandler is the function type implemented by API handlers.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHandler adapts a RequestHandler into an http.HandlerFunc with
// standardized envelope encoding and error handling.
func WrapHandler(handler RequestHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			switch e := err.(type) {
			case *Error:
				e.Send(w)
			case apperrors.Error:
				statusCode := e.StatusCode()
				if statusCode == 0 {
					statusCode = http.StatusInternalServerError
				}
				(&Error{
					StatusCode: statusCode,
					ErrorText:  e.Error(),
					Message:    e.ErrorAll(),
				}).Send(w)
			default:
				ErrApplicationError(err.Error()).Send(w)
			}
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.ContentType != "" && rsp.ContentType != "application/json" {
			w.Header().Set("Content-Type", rsp.ContentType)
			w.WriteHeader(rsp.StatusCode)
			w.Write(rsp.Raw)
			return
		}
		SendJSONRsp(r.Context(), w, rsp)
	}
}
