package httpclient

import (
	"fmt"
	"net/http"

	"github.com/kompox/volsaga/domain/model"
)

// APIError is a non-2xx answer from the server. It unwraps to the model
// sentinel matching the status, so errors.Is(err, model.ErrNotFound) works
// across the wire.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("volsaga api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func newAPIError(status int, msg string) *APIError {
	return &APIError{StatusCode: status, Message: msg, Err: sentinelFor(status)}
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return model.ErrValidation
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusUnprocessableEntity:
		return model.ErrImmutableField
	case http.StatusConflict:
		return model.ErrConflict
	case http.StatusForbidden:
		return model.ErrProtectedResource
	}
	return nil
}
