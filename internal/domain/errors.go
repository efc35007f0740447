package domain

import "fmt"

// ErrorCode classifies pipeline errors.
type ErrorCode string

const (
	CodeAPI        ErrorCode = "api_error"
	CodeParse      ErrorCode = "parse_error"
	CodeValidation ErrorCode = "validation_error"
	CodeConfig     ErrorCode = "config_error"
	CodeIO         ErrorCode = "io_error"
	CodeConversion ErrorCode = "conversion_error"
)

// Error is the typed error returned by pipeline components.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows matching by error code with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// APIError creates an error for model transport or auth failures.
func APIError(message string, err error) *Error {
	return &Error{Code: CodeAPI, Message: message, Err: err}
}

// ParseError creates an error for unparseable model replies.
func ParseError(message string, err error) *Error {
	return &Error{Code: CodeParse, Message: message, Err: err}
}

// ValidationError creates an error for invalid caller input.
func ValidationError(message string, err error) *Error {
	return &Error{Code: CodeValidation, Message: message, Err: err}
}

// ConfigError creates an error for missing or invalid configuration.
func ConfigError(message string, err error) *Error {
	return &Error{Code: CodeConfig, Message: message, Err: err}
}

// IOError creates an error for filesystem failures.
func IOError(message string, err error) *Error {
	return &Error{Code: CodeIO, Message: message, Err: err}
}

// ConversionError creates an error for sketch conversion failures.
func ConversionError(message string, err error) *Error {
	return &Error{Code: CodeConversion, Message: message, Err: err}
}
