package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmailTaken is reported when the store's unique constraint on email fires.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	// ErrUnauthenticated is the single outcome of a rejected session gate.
	ErrUnauthenticated = errors.New("invalid or expired token")
	// ErrUpstream wraps store and signing failures. Never shown to clients.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrTokenInvalid is the parent of every token verification failure.
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenMalformed    = fmt.Errorf("%w: malformed", ErrTokenInvalid)
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", ErrTokenInvalid)
	ErrTokenExpired      = fmt.Errorf("%w: expired", ErrTokenInvalid)
	ErrTokenMissing      = fmt.Errorf("%w: missing", ErrTokenInvalid)
)

// ValidationError aggregates every field-level failure of a request.
type ValidationError struct {
	Errors []string
}

func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// Add appends messages and returns the receiver for chaining.
func (e *ValidationError) Add(msgs ...string) *ValidationError {
	e.Errors = append(e.Errors, msgs...)
	return e
}

// HasErrors reports whether at least one failure was collected.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}
