package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MapsHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:           http.StatusNotFound,
		ErrCodeUnauthorized:       http.StatusUnauthorized,
		ErrCodeForbidden:          http.StatusForbidden,
		ErrCodeBadRequest:         http.StatusBadRequest,
		ErrCodeValidation:         http.StatusBadRequest,
		ErrCodeConflict:           http.StatusConflict,
		ErrCodePreconditionFailed: http.StatusPreconditionFailed,
		ErrCodeTooManyRequests:    http.StatusTooManyRequests,
		ErrCodeDatabaseError:      http.StatusInternalServerError,
		ErrCodeInternal:           http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, code)
	}
}

func TestIs_MatchesPredefinedThroughWrapping(t *testing.T) {
	err := fmt.Errorf("pay for job: %w", ErrJobAlreadyPaid)

	assert.ErrorIs(t, err, ErrJobAlreadyPaid)
	assert.NotErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, IsConflict(err))
	assert.False(t, IsPreconditionFailed(err))
}

func TestFrom_UnknownErrorBecomesInternal(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := From(cause)

	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause)
}

func TestFrom_KeepsAppError(t *testing.T) {
	assert.Same(t, ErrNotJobClient, From(fmt.Errorf("wrap: %w", ErrNotJobClient)))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(ErrContractNotFound))
	assert.True(t, IsForbidden(ErrForeignDeposit))
	assert.True(t, IsValidation(New(ErrCodeValidation, "bad")))
	assert.True(t, IsValidation(New(ErrCodeBadRequest, "bad")))
	assert.True(t, IsPreconditionFailed(ErrNoOutstandingPayment))
}
