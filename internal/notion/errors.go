// Package notion provides an HTTP client for the Notion REST API
// with automatic retry, rate limiting, and error classification.
package notion

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, notion.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("notion: bad request")
	ErrUnauthorized = errors.New("notion: unauthorized")
	ErrForbidden    = errors.New("notion: forbidden")
	ErrNotFound     = errors.New("notion: not found")
	ErrConflict     = errors.New("notion: conflict")
	ErrRateLimited  = errors.New("notion: rate limited")
	ErrServerError  = errors.New("notion: server error")
)

// APIError wraps a sentinel error with the HTTP status code and the
// machine-readable error code and message from the Notion error body.
type APIError struct {
	StatusCode int
	Code       string // e.g. "object_not_found", "validation_error"
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: HTTP %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}

	return fmt.Sprintf("notion: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}

// isRetryable reports whether the given HTTP status code should be retried.
func isRetryable(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
