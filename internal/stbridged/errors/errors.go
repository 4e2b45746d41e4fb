// Package errors provides standardized error handling for the stbridge daemon
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors that can be used across the application
var (
	// ErrNotFound indicates a requested resource doesn't exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrChannelUnknown indicates a channel id missing from the channel table
	ErrChannelUnknown = errors.New("channel not in lineup")

	// ErrMalformedPayload indicates a message lacking an expected field
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrNotConnected indicates the broker session is not established
	ErrNotConnected = errors.New("broker not connected")
)

// Error represents a domain error with additional context
type Error struct {
	// Code is a machine-readable error code
	Code string
	// Message is a human-readable error description
	Message string
	// Op describes the operation that failed
	Op string
	// Err is the underlying error
	Err error
}

// Error implements the error interface with a formatted message
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain handling
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given details
func NewError(code string, message string, op string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// IsNotFound returns true if err represents a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput returns true if err represents an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsChannelUnknown returns true if err represents a channel lineup miss
func IsChannelUnknown(err error) bool {
	return errors.Is(err, ErrChannelUnknown)
}

// IsMalformedPayload returns true if err represents a malformed payload
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

// IsNotConnected returns true if err represents a missing broker session
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}
