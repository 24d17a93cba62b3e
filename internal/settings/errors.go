package settings

import (
	"errors"
	"fmt"
)

// Kind classifies settings load/save failures.
type Kind string

const (
	KindMalformedRoot     Kind = "malformed root"
	KindMalformedDocument Kind = "malformed document"
	KindUnexpectedElement Kind = "unexpected element"
	KindInvalidLocale     Kind = "invalid locale"
	KindFileUnavailable   Kind = "file unavailable"
	KindValidationFailed  Kind = "validation failed"
	KindWriteFailure      Kind = "write failure"
	KindUnknownField      Kind = "unknown field"
	KindInvalidValue      Kind = "invalid value"
)

// Sentinels for errors.Is matching against a Kind.
var (
	ErrMalformedRoot     = &Error{Kind: KindMalformedRoot}
	ErrMalformedDocument = &Error{Kind: KindMalformedDocument}
	ErrUnexpectedElement = &Error{Kind: KindUnexpectedElement}
	ErrInvalidLocale     = &Error{Kind: KindInvalidLocale}
	ErrFileUnavailable   = &Error{Kind: KindFileUnavailable}
	ErrValidationFailed  = &Error{Kind: KindValidationFailed}
	ErrWriteFailure      = &Error{Kind: KindWriteFailure}
	ErrUnknownField      = &Error{Kind: KindUnknownField}
	ErrInvalidValue      = &Error{Kind: KindInvalidValue}
)

// Error is a classified settings failure.
type Error struct {
	Kind   Kind
	Path   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Path)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// KindOf extracts the Kind from err, or "" when err is not a settings error.
func KindOf(err error) Kind {
	var settingsErr *Error
	if errors.As(err, &settingsErr) {
		return settingsErr.Kind
	}
	return ""
}
