package api

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the backend. Message carries the
// human-readable text from the canonical {"error": "..."} envelope when the
// body provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus satisfies ports.StatusError.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// ServerMessage satisfies ports.StatusError.
func (e *APIError) ServerMessage() string { return e.Message }
