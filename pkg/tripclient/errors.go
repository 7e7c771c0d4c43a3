package tripclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("tripclient: not found")
	ErrValidation   = errors.New("tripclient: invalid request")
	ErrConflict     = errors.New("tripclient: conflict")
	ErrForbidden    = errors.New("tripclient: forbidden")
	ErrUnauthorized = errors.New("tripclient: unauthorized")
)

// APIError is any non-2xx answer from the server. It unwraps to one of the
// sentinel errors above when the status has one, so callers can use
// errors.Is for the common cases and errors.As for the details.
type APIError struct {
	StatusCode int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("tripclient: %d %s (trace %s)", e.StatusCode, e.Message, e.TraceID)
	}
	return fmt.Sprintf("tripclient: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}
