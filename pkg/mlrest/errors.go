package mlrest

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by *APIError. Use errors.Is() to check.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
)

const maxErrorBody = 512

// APIError is returned for responses with a non-2xx status.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if len(e.Body) > 0 {
		body := e.Body
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		msg += ": " + string(body)
	}
	return msg
}

// Is matches the sentinel for the status class.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}
