// Package apperr defines the error kinds returned by the social-graph
// services.
//
//   - NotFoundError: a referenced entity (parent thread, community) is absent.
//   - PersistenceError: a store operation failed. The message is a fixed,
//     human-readable prefix followed by the original failure text, e.g.
//     "Error fetching activity: connection refused".
//   - ErrInvalidInput: the caller passed something unusable (empty text,
//     zero ids). No store round-trip happens.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is wrapped by validation failures.
var ErrInvalidInput = errors.New("invalid input")

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string // "thread", "community", ...
	Msg    string // caller-facing message, e.g. "Thread not found"
}

func (e *NotFoundError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Entity + " not found"
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError.
func NotFound(entity, msg string) error {
	return &NotFoundError{Entity: entity, Msg: msg}
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string // fixed prefix, e.g. "Failed to update/create user"
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err with the operation prefix. A nil err stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// Invalid returns an error wrapping ErrInvalidInput with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsInvalid reports whether err wraps ErrInvalidInput.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
