// Package errors gives mindgraft errors a machine-readable [Code] that
// survives wrapping, so the CLI and the HTTP server can map failures to
// exit statuses, HTTP statuses and user-facing text.
//
// Codes group by family: INVALID_* for rejected input, *_NOT_FOUND for
// unknown nodes, edges or sessions, BACKEND_ERROR and NETWORK_ERROR for
// the analysis service, LAYOUT_PRECONDITION for contract violations fed to
// the layout engine, and INTERNAL_ERROR for everything else.
//
//	err := errors.New(errors.ErrCodeInvalidDocument, "node at %s lacks an id", path)
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "reach %s", url)
//
// A Code is itself an error, so the standard library can match it anywhere
// in a chain:
//
//	stderrors.Is(err, errors.ErrCodeNetwork)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class. It implements error so it can be
// used as an errors.Is target.
type Code string

func (c Code) Error() string { return string(c) }

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeDuplicateID     Code = "DUPLICATE_ID"

	ErrCodeNodeNotFound    Code = "NODE_NOT_FOUND"
	ErrCodeEdgeNotFound    Code = "EDGE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeBackend Code = "BACKEND_ERROR"
	ErrCodeNetwork Code = "NETWORK_ERROR"

	ErrCodeLayoutPrecondition Code = "LAYOUT_PRECONDITION"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error carries a code, a message for people, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a bare Code target against this error's code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any error in err's chain has the given code.
func Is(err error, code Code) bool {
	return errors.Is(err, code)
}

// GetCode returns the outermost code in err's chain, or "" if none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessager is implemented by errors whose user-facing text differs
// from their Error() string, such as backend responses carrying a detail.
type UserMessager interface {
	UserMessage() string
}

// UserMessage picks the text to show a person: a [UserMessager] anywhere
// in the chain wins, then the outermost *Error's message without its code,
// then err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um UserMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
