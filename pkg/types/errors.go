package types

import "fmt"

// ErrorCode classifies gocompute errors.
type ErrorCode string

// Error codes, grouped by tier.
const (
	// S0xxx: lexer/parser (syntax) errors
	ErrStringNotClosed   ErrorCode = "S0101"
	ErrNumberOutOfRange  ErrorCode = "S0102"
	ErrUnsupportedEscape ErrorCode = "S0103"
	ErrUnexpectedEnd     ErrorCode = "S0104"
	ErrSyntaxError       ErrorCode = "S0201"
	ErrExpectedToken     ErrorCode = "S0202"

	// L0xxx: logical (type-determination) errors raised at tree build time
	ErrNotValidLogically  ErrorCode = "L0301" // kind incompatible with usage
	ErrUnknownFunction    ErrorCode = "L0302"
	ErrFunctionParameters ErrorCode = "L0303"

	// C0xxx: compute-time degradation reasons. Never thrown; carried for
	// diagnostics when Compute returns the original text.
	ErrArgumentCount      ErrorCode = "C0401"
	ErrUnconvertible      ErrorCode = "C0402"
	ErrUnparsableArgument ErrorCode = "C0403"
	ErrMissingData        ErrorCode = "C0404"
	ErrGeneration         ErrorCode = "C0405"
	ErrInvocationFault    ErrorCode = "C0406"
)

// Error is a structured gocompute error carrying a code and, where known,
// a position in the source text.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Err      error
}

// NewError creates a structured error. Pass position -1 when unknown.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{Code: code, Message: message, Position: position}
}

// Errorf creates a structured error with a formatted message.
func Errorf(code ErrorCode, position int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Position: position}
}

// NotValidLogically creates the build-time type-incompatibility error that
// aborts recognition of the whole expression.
func NotValidLogically(format string, args ...any) *Error {
	return Errorf(ErrNotValidLogically, -1, format, args...)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// IsLogicError reports whether err is the build-time logic error that must
// abort expression recognition.
func IsLogicError(err error) bool {
	ge, ok := err.(*Error)
	return ok && ge.Code == ErrNotValidLogically
}
