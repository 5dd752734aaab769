package client

import (
	"errors"
	"fmt"
)

// ErrEmptyPath is returned when a file path names no file, eg- "" or "/".
// No request is sent in that case.
var ErrEmptyPath = errors.New("file path is empty")

// APIError is returned when the vault answers with a status code of 400 or above.
// Code and Message are taken from the response body when present.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Code, e.Message)
}

// TransportError is returned when no response was received from the vault,
// eg- connection refused, timeout or TLS handshake failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
