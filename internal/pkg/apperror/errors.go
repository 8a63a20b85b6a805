package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest     ErrorCode = "BAD_REQUEST"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation     ErrorCode = "VALIDATION_ERROR"
	ErrCodePrecondition   ErrorCode = "PRECONDITION_FAILED"
	ErrCodeMissingContext ErrorCode = "MISSING_CONTEXT"
)

// AppError — ошибка с кодом и сообщением, которое можно показать пользователю.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал
// и с обёрнутыми копиями sentinel-ошибок.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodePrecondition:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeMissingContext:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf возвращает пользовательское сообщение ошибки или fallback,
// если ошибка не является AppError.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}

// StatusOf возвращает HTTP статус ошибки.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

var (
	ErrNotRecruiter        = New(ErrCodePrecondition, "User is not registered as a recruiter")
	ErrProfileNotFound     = New(ErrCodeNotFound, "Profile not found")
	ErrListingNotFound     = New(ErrCodeNotFound, "Listing not found")
	ErrListingClosed       = New(ErrCodePrecondition, "This listing is no longer accepting applications")
	ErrApplicationNotFound = New(ErrCodeNotFound, "Application not found")
	ErrMissingUserID       = New(ErrCodeMissingContext, "User ID not found. Please try logging in again.")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "Authentication required")
	ErrForbidden           = New(ErrCodeForbidden, "You do not have access to this resource")
	ErrInvalidTransition   = New(ErrCodeConflict, "Application status change is not allowed")
)
