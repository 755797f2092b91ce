package ports

import (
	"context"
	"errors"
	"net/http"
)

// APIClient issues authenticated JSON requests against the portal backend.
// The bearer token is attached transparently from the credential store;
// callers only see paths relative to the /api prefix.
//
// Non-2xx responses surface as errors satisfying StatusError, carrying the
// server's human-readable message when the error envelope provides one.
type APIClient interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}

// StatusError is implemented by transport errors that carry an HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
	// ServerMessage returns the message field from the server's error
	// envelope, or "" when the body carried none.
	ServerMessage() string
}

// httpStatus extracts the HTTP status from err, or 0 for non-HTTP failures
// (network errors, cancelled contexts).
func httpStatus(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return 0
}

// IsEndpointMissing reports whether err means the endpoint is not deployed
// (HTTP 404). This is the only failure the degrading fetch policy may mask.
func IsEndpointMissing(err error) bool {
	return httpStatus(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is an authentication failure (HTTP 401).
func IsUnauthorized(err error) bool {
	return httpStatus(err) == http.StatusUnauthorized
}

// ErrorMessage returns the server-provided message for err, falling back to
// the given default for network failures and empty envelopes.
func ErrorMessage(err error, fallback string) string {
	var se StatusError
	if errors.As(err, &se) && se.ServerMessage() != "" {
		return se.ServerMessage()
	}
	return fallback
}
