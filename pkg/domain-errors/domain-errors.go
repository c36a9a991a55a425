// Package domainerrors carries the error codes the eligibility service
// reports. Transports map codes to their own status values.
package domainerrors

import "errors"

// Code classifies a failure.
type Code string

const (
	// CodeNotFound: unknown benefit id.
	CodeNotFound Code = "not_found"
	// CodeBadRequest: the caller sent something unusable (no profile, bad filter).
	CodeBadRequest Code = "bad_request"
	// CodeValidation: a profile or request field broke a declared constraint.
	CodeValidation Code = "validation_failed"
	// CodeTimeout: the evaluation ran past the request deadline.
	CodeTimeout Code = "timeout"
	// CodeConfiguration marks catalog authoring bugs: a rule pointing at an
	// unknown field, an operator that does not fit the field's type, a file
	// that does not decode.
	CodeConfiguration Code = "configuration_error"
	CodeInternal      Code = "internal_error"
)

// Error is a coded failure. Message is safe to show to callers; Err keeps the
// cause for logs and errors.Is.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code, so errors.Is(err, &Error{Code: c}) works
// through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a message to err. A coded err keeps its code; code only
// applies to uncoded causes.
func Wrap(err error, code Code, msg string) error {
	if existing := CodeOf(err); existing != "" {
		code = existing
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
