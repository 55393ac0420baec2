package errors

import (
	"errors"
	"fmt"

	"godiag/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    codeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the error code for any error, mapping domain sentinels to
// their codes and falling back to UNKNOWN
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if code := codeFor(err); code != CodeInternalError {
		return code
	}
	return "UNKNOWN"
}

// codeFor maps domain sentinel errors onto application codes
func codeFor(err error) string {
	switch {
	case errors.Is(err, core.ErrUnknownTechnique):
		return CodeUnknownTechnique
	case errors.Is(err, core.ErrUnknownMethod):
		return CodeUnknownMethod
	case errors.Is(err, core.ErrEmptyInput):
		return CodeEmptyInput
	case errors.Is(err, core.ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, core.ErrNotFound):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeUnknownTechnique = "UNKNOWN_TECHNIQUE"
	CodeUnknownMethod    = "UNKNOWN_METHOD"
	CodeNotFound         = "NOT_FOUND"
	CodeFileProcessing   = "FILE_PROCESSING_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: message,
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func FileProcessing(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeFileProcessing,
		Message: message,
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
