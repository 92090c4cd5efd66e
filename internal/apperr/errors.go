// Package apperr defines the error kinds surfaced to callers of the post
// repository adapter and the calendar aggregation code.
package apperr

import (
	"errors"
	"fmt"
)

// AuthError means there is no authenticated owner or the session was rejected
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "not authenticated"
	}
	return "not authenticated: " + e.Reason
}

// ValidationError reports a missing or malformed required field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// RemoteError is a failed backend function call. Status is 0 when no response
// arrived (transport failure or timeout).
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return "remote call failed: " + e.Message
	}
	return fmt.Sprintf("remote call failed (%d): %s", e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// StoreError is a failed direct data-store operation
type StoreError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Message == "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsAuth reports whether err is or wraps an *AuthError
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a *ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsRemote reports whether err is or wraps a *RemoteError
func IsRemote(err error) bool {
	var target *RemoteError
	return errors.As(err, &target)
}

// IsStore reports whether err is or wraps a *StoreError
func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}
