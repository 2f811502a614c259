// ABOUTME: Typed errors for backend responses
// ABOUTME: APIError classifies limit_exceeded and 401 responses via errors.Is

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error tags and sentinels.
var (
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrUnauthorized  = errors.New("unauthorized")
)

// LimitExceededCode is the error tag the backend uses for exhausted quota.
const LimitExceededCode = "limit_exceeded"

// APIError is a non-2xx backend response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Code       string // the "error" field of the payload
	Message    string // the "message" field of the payload
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Code
	}
	if detail == "" {
		return fmt.Sprintf("api %s %s failed with status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s: %s", e.Method, e.Path, detail)
}

// Is lets errors.Is match ErrLimitExceeded and ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrLimitExceeded:
		return e.Code == LimitExceededCode
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Reason returns the best human-readable description of the failure.
func (e *APIError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}
