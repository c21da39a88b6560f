package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUnauthenticated is returned when a request is rejected with 401 and the
// session holds no credential at all. There is nothing to refresh, so the
// request is never retried.
var ErrUnauthenticated = errors.New("not authenticated")

// APIError represents a non-2xx HTTP response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// SessionExpiredError is returned when a 401 could not be recovered: either no
// refresh token was available, or the refresh call itself failed. Cause holds
// the original 401 in the first case and the refresh failure in the second,
// so callers can tell the two apart. The session has already been cleared by
// the time this error is seen.
type SessionExpiredError struct {
	Cause error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Cause)
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the
// given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsSessionExpired returns true if err carries an unrecoverable session
// failure. UIs should drop back to their login entry point when they see one.
func IsSessionExpired(err error) bool {
	var expErr *SessionExpiredError
	return errors.As(err, &expErr)
}

// errorMessage extracts a human-readable message from an API error payload.
// The API is not consistent about its error shape, so try the common keys
// before falling back to the raw body.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		return msg
	}
	if msg := gjson.GetBytes(body, "error").String(); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(body))
}
