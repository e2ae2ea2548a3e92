package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is wrapped by NotConfiguredError.
	ErrNotConfigured = errors.New("not configured")
	ErrNotFound      = errors.New("not found")
)

// ValidationError is a client input error; Message is safe to return.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotConfiguredError names the resource whose settings are missing.
type NotConfiguredError struct {
	Resource string
}

func (e *NotConfiguredError) Error() string {
	return e.Resource + " " + ErrNotConfigured.Error()
}

func (e *NotConfiguredError) Unwrap() error {
	return ErrNotConfigured
}

// NotFoundError carries the message returned with a 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// UpstreamError is an external call failure with the message to return to
// the client. Err is logged, never returned.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
