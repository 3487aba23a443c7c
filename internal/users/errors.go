package users

import (
	"errors"
	"fmt"
)

// Operations reported in error values and logs
const (
	OpList   = "list"
	OpCreate = "create"
)

// TransportError means the request never produced a response
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s users: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError means the service answered with a non-2xx status
type HTTPStatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string // truncated, for logs only
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// DecodeError means the body was not the JSON shape the operation expects
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s users: decode error: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a failure of the underlying HTTP round-trip
func NewTransportError(op string, cause error) *TransportError {
	return &TransportError{Op: op, Err: cause}
}

// NewHTTPStatusError records a non-2xx response
func NewHTTPStatusError(op string, code int, status, body string) *HTTPStatusError {
	return &HTTPStatusError{Op: op, StatusCode: code, Status: status, Body: body}
}

// NewDecodeError wraps a JSON decoding failure
func NewDecodeError(op string, cause error) *DecodeError {
	return &DecodeError{Op: op, Err: cause}
}

func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func IsHTTPStatus(err error) bool {
	var target *HTTPStatusError
	return errors.As(err, &target)
}

func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var target *HTTPStatusError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}
