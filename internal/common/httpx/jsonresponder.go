package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pulseboard/pulseboard/internal/common/logtrace"
)

// successRsp is the wire envelope for successful responses. The payload
// rides under "data"; "message" is an optional user-facing note.
type successRsp struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// SendJSONRsp writes a JSON success envelope with the response's status
// code. A 204 or a nil payload without message produces an empty body.
// If Location is set and the status code is 201, the Location header is set.
func SendJSONRsp(ctx context.Context, w http.ResponseWriter, rsp *Response) {
	if rsp.StatusCode == http.StatusCreated && rsp.Location != "" {
		w.Header().Set("Location", rsp.Location)
	}
	if rsp.StatusCode == http.StatusNoContent || (rsp.Response == nil && rsp.Message == "") {
		w.WriteHeader(rsp.StatusCode)
		return
	}

	body, err := json.Marshal(&successRsp{
		Data:    rsp.Response,
		Message: rsp.Message,
	})
	if err != nil {
		log.Ctx(ctx).Err(err).Msg("unable to marshal json")
		ErrApplicationError("Id: " + logtrace.RequestIDFromContext(ctx)).Send(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.StatusCode)
	w.Write(body)
}
