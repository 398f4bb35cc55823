// ABOUTME: Error types returned by the gateway
// ABOUTME: APIError carries the backend status and message envelope

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any APIError with status 401
var ErrUnauthorized = errors.New("unauthorized")

// ErrorResponse is the backend error envelope
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// MessageOr returns the backend-provided message carried by err, or
// fallback when err has none. Transport errors always yield fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
