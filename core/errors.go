package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ArgumentError reports a call made with a value the callee must never receive.
type ArgumentError struct {
	msg string
}

func NewArgumentError(msg string) *ArgumentError {
	return &ArgumentError{msg}
}

func (err *ArgumentError) Error() string {
	return err.msg
}

func IsArgumentError(err error) bool {
	_, ok := errors.Cause(err).(*ArgumentError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
