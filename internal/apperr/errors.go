// Package apperr defines the failure taxonomy reported to API clients. Every
// error that crosses a service boundary carries a stable machine-checkable
// kind next to its human message.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindUnauthenticated marks a missing or invalid credential.
	KindUnauthenticated Kind = "unauthenticated"
	// KindForbidden marks an authenticated caller with the wrong role or
	// without ownership of the resource.
	KindForbidden Kind = "forbidden"
	// KindNotFound marks a referenced entity id with no record.
	KindNotFound Kind = "not_found"
	// KindValidation marks a missing or malformed request field.
	KindValidation Kind = "validation"
	// KindConflict marks a uniqueness violation such as a taken username.
	KindConflict Kind = "conflict"
	// KindUpstream marks a failed identity-provider or store call.
	KindUpstream Kind = "upstream"
)

// Error pairs a taxonomy kind with a message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches taxonomy errors by kind, so errors.Is works against kind
// sentinels regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New builds a taxonomy error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a taxonomy error around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Unauthenticated reports a missing or invalid credential.
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

// Forbidden reports a role or ownership violation.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// NotFound reports an absent entity.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Validation reports a bad request payload.
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Upstream reports a failed collaborator call.
func Upstream(message string, err error) *Error { return Wrap(KindUpstream, message, err) }

// KindOf extracts the taxonomy kind from err, or "" for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
