// Package errs defines the error taxonomy shared across services and handlers.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals an operation on a missing entry, session, ticket or order.
	ErrNotFound = errors.New("not found")

	// ErrSessionClosed signals an append to a resolved session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrVersionConflict signals a lost optimistic-concurrency race on a session save.
	ErrVersionConflict = errors.New("session was modified concurrently")

	// ErrUnknownResolver signals a dynamic knowledge entry referencing an
	// unregistered resolver function.
	ErrUnknownResolver = errors.New("unknown resolver")

	// ErrUnauthorized signals a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden signals an authenticated caller lacking the required role.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed input, such as an empty knowledge question.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError wraps a failure from an external collaborator (database, broker,
// file storage) so callers can distinguish it from domain errors.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Upstream wraps err as an UpstreamError, or returns nil if err is nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
