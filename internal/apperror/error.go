package apperror

import (
	"errors"
	"fmt"
)

// Code categorizes errors surfaced at the service boundary
type Code string

const (
	CodeNotFound   Code = "not_found"
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"
)

// Error is a client-facing failure carrying the literal message text
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NotFound builds a not_found error with a formatted message
func NotFound(format string, args ...interface{}) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

// BadRequest builds a bad_request error with a formatted message
func BadRequest(format string, args ...interface{}) *Error {
	return New(CodeBadRequest, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the first *Error in the chain,
// or CodeInternal for anything else
func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

func IsBadRequest(err error) bool {
	return GetCode(err) == CodeBadRequest
}
