package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

const (
	CodeValidation         = "validation_error"
	CodeInsufficientInputs = "insufficient_inputs"
	CodeInvalidProfile     = "invalid_profile"
	CodeUnsupportedMedia   = "unsupported_media"
	CodeFileTooLarge       = "file_too_large"
	CodeNotFound           = "not_found"
	CodeProbe              = "probe_error"
	CodeEngineStart        = "engine_start_error"
	CodeEngineRuntime      = "engine_runtime_error"
	CodeInternal           = "internal_error"
	CodeCannotStat         = "cannot_stat"
	CodeCannotRemove       = "cannot_remove"
)

var (
	ErrValidation = func(msg string) *AppError {
		return &AppError{Code: CodeValidation, Message: msg}
	}
	ErrInsufficientInputs = func(n int) *AppError {
		return &AppError{Code: CodeInsufficientInputs, Message: fmt.Sprintf("at least 2 usable inputs required, got %d", n)}
	}
	ErrInvalidProfile = func(msg string) *AppError {
		return &AppError{Code: CodeInvalidProfile, Message: msg}
	}
	ErrUnsupportedMedia = func(name string) *AppError {
		return &AppError{Code: CodeUnsupportedMedia, Message: fmt.Sprintf("unsupported media type: %s", name)}
	}
	ErrFileTooLarge = func(name string, limit int64) *AppError {
		return &AppError{Code: CodeFileTooLarge, Message: fmt.Sprintf("%s exceeds the %d byte limit", name, limit)}
	}
	ErrNotFound = func(err error) *AppError {
		return &AppError{Code: CodeNotFound, Message: "resource not found", Err: err}
	}
	ErrProbe = func(err error) *AppError {
		return &AppError{Code: CodeProbe, Message: "media inspection failed", Err: err}
	}
	ErrEngineStart = func(err error) *AppError {
		return &AppError{Code: CodeEngineStart, Message: "engine could not be started", Err: err}
	}
	ErrEngineRuntime = func(detail string) *AppError {
		return &AppError{Code: CodeEngineRuntime, Message: detail}
	}
	ErrInternal = func(err error) *AppError {
		return &AppError{Code: CodeInternal, Message: "internal server error", Err: err}
	}
	ErrCannotStat = func(err error) *AppError {
		return &AppError{Code: CodeCannotStat, Message: "stat failed", Err: err}
	}
	ErrCannotRemove = func(err error) *AppError {
		return &AppError{Code: CodeCannotRemove, Message: "file could not be removed", Err: err}
	}
)

// HasCode reports whether err wraps an *AppError carrying code.
func HasCode(err error, code string) bool {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
