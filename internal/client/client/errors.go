package client

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}
