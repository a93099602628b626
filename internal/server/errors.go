package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	bnerrors "github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/httputil"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	RequestID      string `json:"request_id,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// classify maps a dispatcher error onto an HTTP status.
func classify(err error) (status int, code string, upstream int) {
	if te, ok := httputil.AsTransportError(err); ok {
		return http.StatusBadGateway, string(te.Code()), te.StatusCode
	}

	code = string(bnerrors.GetCode(err))
	switch {
	case bnerrors.IsValidation(err), bnerrors.IsProviderConfig(err):
		return http.StatusBadRequest, code, 0
	case bnerrors.Is(err, bnerrors.ErrCodeDecode), bnerrors.Is(err, bnerrors.ErrCodeParse),
		bnerrors.Is(err, bnerrors.ErrCodeBodyTooLarge):
		return http.StatusBadGateway, code, 0
	case errors.Is(err, context.Canceled):
		return 499, "CANCELED", 0
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, string(bnerrors.ErrCodeTimeout), 0
	}
	if code == "" {
		code = string(bnerrors.ErrCodeInternal)
	}
	return http.StatusInternalServerError, code, 0
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, upstream := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeError(w, r, status, code, publicMessage(err), upstream)
}

// publicMessage is the error text returned to gateway clients. A transport
// error names only the upstream host and path; the request URL carries
// credentials and the signature.
func publicMessage(err error) string {
	te, ok := httputil.AsTransportError(err)
	if !ok {
		return bnerrors.UserMessage(err)
	}

	target := "upstream"
	if u, perr := url.Parse(te.URL); perr == nil && u.Host != "" {
		target = u.Host + u.Path
	}
	switch {
	case te.StatusCode != 0:
		return fmt.Sprintf("GET %s: status %d", target, te.StatusCode)
	case te.Timeout():
		return fmt.Sprintf("GET %s: timed out", target)
	}
	return fmt.Sprintf("GET %s: request failed", target)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, upstream int) {
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:           code,
		Message:        message,
		RequestID:      RequestID(r.Context()),
		UpstreamStatus: upstream,
	}})
}
