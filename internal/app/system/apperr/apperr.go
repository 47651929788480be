// Package apperr defines the failure taxonomy shared by stores and handlers.
//
// Stores raise typed failures; the feature layer converts them to transport
// responses. Kinds map onto HTTP status codes in httpjson:
//
//	Validation      → 400
//	Unauthenticated → 401
//	Forbidden       → 403
//	NotFound        → 404
//	Conflict        → 409
//	Internal        → 500
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthenticated
	Forbidden
	NotFound
	Conflict
)

// Error is a typed failure carrying a user-facing message. The message for
// Validation and Conflict names the offending field or condition; messages
// for authorization failures stay generic and never reveal whether a
// resource exists.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a typed failure with a user-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates a typed failure with a formatted user-facing message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a taxonomy kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the taxonomy kind from err. Untyped errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message for err. Untyped errors get a
// generic message so internal details never leak to callers.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}
