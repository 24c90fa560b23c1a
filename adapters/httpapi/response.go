package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kompox/volsaga/domain/model"
)

// Envelope is the body of every API response. Code mirrors the HTTP status.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body := struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data any    `json:"data,omitempty"`
	}{Code: status, Msg: http.StatusText(status), Data: data}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Code: status, Msg: msg})
}

// writeBatch answers 200 when every item succeeded and 207 otherwise.
func writeBatch(w http.ResponseWriter, r *model.BatchResult) {
	status := http.StatusOK
	if !r.Success() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, r)
}

// StatusFor maps an error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrImmutableField):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrProtectedResource):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
