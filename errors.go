package a3s

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by client and transport operations.
var (
	ErrNotFound      = errors.New("a3s: not found")
	ErrUnauthorized  = errors.New("a3s: unauthorized")
	ErrInvalidConfig = errors.New("a3s: invalid configuration")
)

// APIError is a service error decoded from a non-2xx response body.
type APIError struct {
	StatusCode int    `json:"-" msgpack:"-"`
	Code       string `json:"code" msgpack:"code"`
	Message    string `json:"message" msgpack:"message"`
	RequestID  string `json:"-" msgpack:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("a3s: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("a3s: %s (status %d)", e.Message, e.StatusCode)
}

// Unwrap maps well-known status codes to sentinel errors so callers can
// test with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}
