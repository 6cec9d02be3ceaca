// Package errors defines the DB-adapter error taxonomy the core surfaces to
// callers (spec §7): InterfaceError, ProgrammingError, DataError,
// NotSupportedError, IntegrityError, OperationalError and InternalError.
//
// Each is a distinct type so callers can dispatch with errors.As, and each
// wraps an optional underlying cause so backing-store errors keep their
// original message per the propagation rule in §7.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies which branch of the taxonomy an error belongs to.
type Kind int

const (
	KindInterface Kind = iota
	KindProgramming
	KindData
	KindNotSupported
	KindIntegrity
	KindOperational
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "InterfaceError"
	case KindProgramming:
		return "ProgrammingError"
	case KindData:
		return "DataError"
	case KindNotSupported:
		return "NotSupportedError"
	case KindIntegrity:
		return "IntegrityError"
	case KindOperational:
		return "OperationalError"
	case KindInternal:
		return "InternalError"
	default:
		return "Error"
	}
}

// Error is the concrete type behind every taxonomy member.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InterfaceError reports a malformed connection string or unsupported
// parameter style.
func InterfaceError(format string, args ...any) *Error {
	return newError(KindInterface, format, args...)
}

// ProgrammingError reports a SQL parse failure, unknown table/column, a
// catalog type mismatch, or an attempt to index an unsupported type.
func ProgrammingError(format string, args ...any) *Error {
	return newError(KindProgramming, format, args...)
}

// DataError reports a value out of range for its declared type.
func DataError(format string, args ...any) *Error {
	return newError(KindData, format, args...)
}

// NotSupportedError reports an unsupported SQL construct.
func NotSupportedError(format string, args ...any) *Error {
	return newError(KindNotSupported, format, args...)
}

// IntegrityError reports a post-hoc detected violation, such as a
// primary-key duplicate discovered by a follow-up read. Never promised.
func IntegrityError(format string, args ...any) *Error {
	return newError(KindIntegrity, format, args...)
}

// OperationalError reports a backing-store RPC failure or timeout,
// optionally wrapping the underlying cause.
func OperationalError(cause error, format string, args ...any) *Error {
	e := newError(KindOperational, format, args...)
	e.Cause = cause
	return e
}

// InternalError reports catalog file corruption or a codec invariant
// violation.
func InternalError(format string, args ...any) *Error {
	return newError(KindInternal, format, args...)
}

// Is reports whether err belongs to the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
