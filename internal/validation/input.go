package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

// Ограничения длины текстовых полей.
const (
	MaxNameLength        = 100
	MaxProfessionLength  = 100
	MaxTermsLength       = 5000
	MaxDescriptionLength = 5000
)

// ValidateLength проверяет длину строки в символах. Нулевая граница не проверяется.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.Newf(apperror.ErrCodeValidation, "%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return apperror.Newf(apperror.ErrCodeValidation, "%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// RequiredText обрезает пробелы и проверяет, что строка не пустая и не длиннее max.
func RequiredText(fieldName, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.Newf(apperror.ErrCodeValidation, "%s is required", fieldName)
	}
	if err := ValidateLength(fieldName, value, 0, max); err != nil {
		return "", err
	}
	return value, nil
}

func ValidateName(fieldName, value string) (string, error) {
	return RequiredText(fieldName, value, MaxNameLength)
}

func ValidateProfession(value string) (string, error) {
	return RequiredText("profession", value, MaxProfessionLength)
}

func ValidateTerms(value string) (string, error) {
	return RequiredText("terms", value, MaxTermsLength)
}

func ValidateJobDescription(value string) (string, error) {
	return RequiredText("description", value, MaxDescriptionLength)
}
