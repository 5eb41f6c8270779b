// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrReferenceNotFound = errors.New("referenced resource not found")
	ErrReferenceInUse    = errors.New("resource is still referenced")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRateLimited       = errors.New("rate limited")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    map[string]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ReferenceNotFoundError(resource string) *AppError {
	return NewAppError(
		ErrReferenceNotFound,
		fmt.Sprintf("referenced %s not found", resource),
		http.StatusBadRequest,
		"REFERENCE_NOT_FOUND",
	)
}

func ReferenceInUseError(resource string) *AppError {
	return NewAppError(
		ErrReferenceInUse,
		fmt.Sprintf("%s is still referenced by other records", resource),
		http.StatusConflict,
		"REFERENCE_IN_USE",
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_FAILED",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		"DUPLICATE",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"token is invalid",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"internal server error",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}

// ReferenceError names the missing parent of a create or update.
type ReferenceError struct {
	Resource string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Resource, ErrReferenceNotFound)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReferenceNotFound
}

func MissingReference(resource string) error {
	return &ReferenceError{Resource: resource}
}

// ToAppError classifies err into the status and code returned to clients.
// resource names the primary resource of the request for not-found and
// in-use messages.
func ToAppError(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var refErr *ReferenceError
	switch {
	case errors.As(err, &refErr):
		return ReferenceNotFoundError(refErr.Resource)
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrReferenceNotFound):
		return ReferenceNotFoundError(resource)
	case errors.Is(err, ErrReferenceInUse):
		return ReferenceInUseError(resource)
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError(resource)
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	case errors.Is(err, ErrInvalidInput):
		return ValidationError(err.Error())
	default:
		return InternalError(err)
	}
}
