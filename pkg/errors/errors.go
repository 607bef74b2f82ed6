// Package errors carries coded errors through genposter.
//
// Every failure the renderer reports is an [*Error] with a [Code]. Front-ends
// branch on the code, never on message text: the CLI prints [UserMessage] and
// exits, the server turns [KindOf] into an HTTP status.
//
// The rendering core produces exactly two codes. INVALID_CONFIGURATION means
// a range, count, size, palette mode, preset or format was rejected before
// anything was drawn. ENCODING_ERROR means an image could not be serialized.
// The other codes belong to config files, the caches and the gallery.
//
//	if lo > hi {
//	    return errors.Invalid("radius min %g exceeds max %g", lo, hi)
//	}
//	if err := png.Encode(&buf, img); err != nil {
//	    return errors.Wrap(errors.ErrCodeEncoding, err, "encode png")
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeInvalidConfiguration Code = "INVALID_CONFIGURATION"
	ErrCodeInvalidFormat        Code = "INVALID_FORMAT" // unparsable TOML or JSON
	ErrCodeInvalidPath          Code = "INVALID_PATH"
	ErrCodeUnsupported          Code = "UNSUPPORTED"

	ErrCodeEncoding Code = "ENCODING_ERROR"

	ErrCodeNotFound     Code = "NOT_FOUND" // unknown poster id
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeStorage  Code = "STORAGE_ERROR" // cache or gallery backend
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Kind groups codes by who has to act on them.
type Kind int

const (
	KindFailure Kind = iota // something broke on our side
	KindInput               // the caller sent something unusable
	KindMissing             // the thing asked for does not exist
)

// Kind reports the group c belongs to. Unknown codes are failures.
func (c Code) Kind() Kind {
	switch c {
	case ErrCodeInvalidConfiguration, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeUnsupported:
		return KindInput
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return KindMissing
	}
	return KindFailure
}

// Error pairs a Code with a message and, optionally, the error that caused it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is New with a cause, which stays reachable through errors.Is and
// errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Invalid is shorthand for New(ErrCodeInvalidConfiguration, ...).
func Invalid(format string, args ...any) *Error {
	return New(ErrCodeInvalidConfiguration, format, args...)
}

// coded finds the outermost *Error in err's chain.
func coded(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := coded(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost coded error, or "" if err
// carries none.
func GetCode(err error) Code {
	if e, ok := coded(err); ok {
		return e.Code
	}
	return ""
}

// KindOf is GetCode(err).Kind().
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// UserMessage is the text to show a person: the message of a coded error
// without its code and cause, or err.Error() otherwise.
func UserMessage(err error) string {
	if e, ok := coded(err); ok {
		return e.Message
	}
	return err.Error()
}
