package rest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures: the server could not
	// be reached at all.
	ErrUnavailable = errors.New("server unavailable")
)

// APIError is a non-2xx response, preserved verbatim for the caller.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}
