// Package apperr carries the error taxonomy shared by services and
// handlers: every failure has a kind plus a human-readable message so
// the HTTP layer can map it to a status without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota // Caller-supplied data violates an invariant
	KindPermission             // Feature/quota gate rejected the operation
	KindNotFound
	KindConflict    // Concurrent modification: stock, duplicate number/code
	KindPersistence // Underlying store unavailable or write failed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindPermission:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "persistence_error"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error // Optional wrapped cause
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Permission(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "storage operation failed", Err: err}
}

// KindOf extracts the kind from any error; unknown errors count as
// persistence failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}
