package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the service can surface. Nothing here is
// process-fatal; the HTTP layer maps each kind to a status and a safe body.
type Kind int

const (
	AuthenticationMissing Kind = iota
	AuthorizationDenied
	ValidationFailed
	NotFound
	UpstreamFailure
	DuplicateConflict
)

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

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Unauthenticated(message string) *Error {
	return New(AuthenticationMissing, message)
}

func Denied(message string) *Error {
	return New(AuthorizationDenied, message)
}

func Invalid(message string) *Error {
	return New(ValidationFailed, message)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

func Upstream(message string, err error) *Error {
	return Wrap(UpstreamFailure, message, err)
}

func Conflict(message string) *Error {
	return New(DuplicateConflict, message)
}

// KindOf extracts the Kind from err, defaulting to UpstreamFailure for
// anything unclassified so unknown failures never grant access.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return UpstreamFailure
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
