// Package validation содержит синхронные предикаты для форм оператора.
// Валидаторы проверяют только форму значения, бизнес-решения
// (принять ли скидку, верен ли PIN) остаются за ledger API.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/avc/pawnshop-admin/internal/format"
	"github.com/shopspring/decimal"
)

// Result представляет исход проверки одного поля
type Result struct {
	OK          bool     `json:"is_valid"`
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Valid возвращает успешный результат
func Valid() Result {
	return Result{OK: true}
}

// Invalid возвращает результат с сообщением об ошибке
func Invalid(message string, suggestions ...string) Result {
	return Result{OK: false, Message: message, Suggestions: suggestions}
}

// Required проверяет, что строка не пуста после обрезки пробелов
func Required(value string) Result {
	if strings.TrimSpace(value) == "" {
		return Invalid("field is required")
	}
	return Valid()
}

// Amount проверяет денежную сумму в границах [min, max].
// allowZero разрешает нулевую сумму (например, для скидки).
func Amount(value, min, max decimal.Decimal, allowZero bool) Result {
	if value.IsNegative() {
		return Invalid("amount cannot be negative")
	}
	if value.IsZero() && !allowZero {
		return Invalid("amount must be greater than zero")
	}
	if value.LessThan(min) {
		return Invalid(
			fmt.Sprintf("amount must be at least %s", format.Currency(min)),
			format.Currency(min),
		)
	}
	if value.GreaterThan(max) {
		return Invalid(
			fmt.Sprintf("amount cannot exceed %s", format.Currency(max)),
			format.Currency(max),
		)
	}
	return Valid()
}

// IntRange проверяет целое в границах [min, max].
// Используется для месяцев продления (1-12) и лимита займов (8-20).
func IntRange(value, min, max int) Result {
	if value < min || value > max {
		return Invalid(fmt.Sprintf("value must be between %d and %d", min, max))
	}
	return Valid()
}

// Phone проверяет, что номер содержит ровно digits цифр.
// Разделители и скобки игнорируются.
func Phone(value string, digits int) Result {
	count := 0
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			count++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
			// Допустимые разделители
		default:
			return Invalid("phone number contains invalid characters")
		}
	}
	if count != digits {
		return Invalid(fmt.Sprintf("phone number must contain %d digits", digits))
	}
	return Valid()
}

// TextLength проверяет длину свободного текста в границах [min, max]
func TextLength(value string, min, max int) Result {
	n := len(strings.TrimSpace(value))
	if n < min {
		return Invalid(fmt.Sprintf("text must be at least %d characters", min))
	}
	if n > max {
		return Invalid(fmt.Sprintf("text cannot exceed %d characters", max))
	}
	return Valid()
}

// AdminPIN проверяет форму PIN администратора: ровно 4 цифры.
// Сам PIN проверяет сервер.
func AdminPIN(value string) Result {
	if len(value) != 4 {
		return Invalid("admin PIN must be exactly 4 digits")
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return Invalid("admin PIN must be exactly 4 digits")
		}
	}
	return Valid()
}
