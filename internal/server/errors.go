package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sankey/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status. Malformed requests are
// 400; well-formed graphs that cannot be drawn are 422.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidVizType,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidCanvas:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidInput, errors.ErrCodeEmptyInput,
		errors.ErrCodeDanglingEdge, errors.ErrCodeDuplicateNode,
		errors.ErrCodeCapacityOverflow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := middleware.GetReqID(r.Context())
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := strings.TrimPrefix(err.Error(), string(code)+": ")
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", reqID, "err", err)
		msg = "internal error"
	} else {
		s.logger.Debug("rejected request", "request_id", reqID, "code", code, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg, RequestID: reqID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
