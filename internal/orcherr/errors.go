// Package orcherr defines the coded errors raised by the switching core.
// Codes are stable strings, so callers and tests match on the code instead
// of the message text.
package orcherr

import (
	"errors"
	"fmt"
)

// Code identifies an error category.
type Code string

const (
	ManifestNotFound      Code = "MANIFEST_NOT_FOUND"
	ManifestInvalid       Code = "MANIFEST_INVALID"
	SourceMissing         Code = "SOURCE_MISSING"
	ProfileNotFound       Code = "PROFILE_NOT_FOUND"
	InvalidProfileName    Code = "INVALID_PROFILE_NAME"
	RegistryEntryNotFound Code = "REGISTRY_ENTRY_NOT_FOUND"
	NothingDiscovered     Code = "NOTHING_DISCOVERED"
	GitUnavailable        Code = "GIT_UNAVAILABLE"
)

// Error is a coded error, optionally tied to a filesystem path.
type Error struct {
	Code    Code
	Message string
	Path    string
	Wrapped error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithPath returns e with Path set.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to err. It returns nil when err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Wrapped: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err's chain contains an *Error with code.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}
