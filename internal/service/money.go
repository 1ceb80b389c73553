package service

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

// moneyScale - число знаков после запятой у NUMERIC(12,2).
const moneyScale = 2

// MaxAmount - наибольшее значение, которое помещается в NUMERIC(12,2).
var MaxAmount = decimal.RequireFromString("9999999999.99")

// validateAmount проверяет, что сумма положительна, помещается в колонку и в копейки.
func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.Newf(apperror.ErrCodeValidation, "%s must be greater than 0", field)
	}
	if amount.GreaterThan(MaxAmount) {
		return apperror.Newf(apperror.ErrCodeValidation, "%s must not exceed %s", field, MaxAmount.StringFixed(moneyScale))
	}
	if !amount.Equal(amount.Round(moneyScale)) {
		return apperror.Newf(apperror.ErrCodeValidation, "%s must have at most %d decimal places", field, moneyScale)
	}
	return nil
}
