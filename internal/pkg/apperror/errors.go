package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	ErrCodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
)

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

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал с предопределёнными значениями.
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

func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Internal оборачивает инфраструктурную ошибку, сообщение наружу не раскрывается.
func Internal(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "Internal server error")
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodePreconditionFailed:
		return http.StatusPreconditionFailed
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// From приводит произвольную ошибку к *AppError; неизвестные ошибки становятся INTERNAL_ERROR.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation) || hasCode(err, ErrCodeBadRequest)
}

func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

func IsPreconditionFailed(err error) bool {
	return hasCode(err, ErrCodePreconditionFailed)
}

var (
	ErrUnauthorized         = New(ErrCodeUnauthorized, "Unauthorized")
	ErrProfileNotFound      = New(ErrCodeNotFound, "Profile not found")
	ErrContractorNotFound   = New(ErrCodeNotFound, "Contractor does not exist")
	ErrContractNotFound     = New(ErrCodeNotFound, "Contract not found")
	ErrContractNotExist     = New(ErrCodeNotFound, "Contract does not exist")
	ErrJobNotFoundOrPaid    = New(ErrCodeNotFound, "Job not found or already paid for")
	ErrNotJobClient         = New(ErrCodeForbidden, "You are not authorized to pay for this job")
	ErrOnlyClientsContract  = New(ErrCodeForbidden, "Only clients can create contracts")
	ErrForeignDeposit       = New(ErrCodeForbidden, "You can only deposit into your own balance")
	ErrInsufficientBalance  = New(ErrCodePreconditionFailed, "Insufficient balance")
	ErrBalanceLimitExceeded = New(ErrCodePreconditionFailed, "Balance limit exceeded")
	ErrNoOutstandingPayment = New(ErrCodePreconditionFailed, "No outstanding payments to deposit against")
	ErrJobAlreadyPaid       = New(ErrCodeConflict, "Job has already been paid for")
	ErrTooManyRequests      = New(ErrCodeTooManyRequests, "Too many requests, try again later")
)
