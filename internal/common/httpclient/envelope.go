package httpclient

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var jsoniterStd = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the normalized result of every gateway call. All failure
// modes are communicated through the Success=false branch; the gateway
// never returns a Go error to its caller.
//
// Invariants: Success implies Error is empty; !Success implies Data is nil.
// StatusCode is zero when no HTTP response was received (timeout, network
// failure). SessionExpired is set only on 401 responses, after the
// persisted token has been cleared; acting on it (navigation, re-login
// prompts) is the caller's business, not the gateway's.
type Envelope struct {
	Success        bool            `json:"success"`
	Data           json.RawMessage `json:"data,omitempty"`
	Error          string          `json:"error,omitempty"`
	Message        string          `json:"message,omitempty"`
	StatusCode     int             `json:"statusCode,omitempty"`
	SessionExpired bool            `json:"-"`
}

// Decode unmarshals the envelope's data payload into out. Returns an error
// if the call failed or carried no data.
func (e *Envelope) Decode(out any) error {
	if !e.Success {
		return ErrRequestFailed.Msg(e.ErrorMessage())
	}
	if len(e.Data) == 0 {
		return ErrNoData
	}
	return jsoniterStd.Unmarshal(e.Data, out)
}

// ErrorMessage returns the best user-facing description of a failure:
// the backend-supplied message when present, else the error text.
func (e *Envelope) ErrorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func success(data json.RawMessage, message string) *Envelope {
	return &Envelope{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func failure(errText, message string, statusCode int) *Envelope {
	return &Envelope{
		Success:    false,
		Error:      errText,
		Message:    message,
		StatusCode: statusCode,
	}
}
