package domain

import "errors"

// Ошибки платежей и предпросмотра
var (
	ErrNothingDue        = errors.New("balance is already zero")
	ErrInvalidAmount     = errors.New("invalid payment amount")
	ErrUnusuallyLarge    = errors.New("payment amount is unusually large")
	ErrNeedsConfirmation = errors.New("payment requires explicit confirmation")
)

// Ошибки продлений и скидок
var (
	ErrInvalidMonths   = errors.New("extension months out of range")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrInvalidPIN      = errors.New("admin PIN must be exactly 4 digits")
)

// Ошибки сущностей
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrUnknownSection      = errors.New("unknown business config section")
)

// Ошибки нумерации
var (
	ErrSequenceNotFound = errors.New("sequence mapping not found")
)
