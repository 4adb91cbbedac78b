// Package allocation вычисляет разбивку платежа и стоимость продления.
// Результат используется только для предпросмотра перед отправкой:
// итоговую проводку по ticket выполняет ledger API, он же остается
// источником истины.
package allocation

import (
	"time"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentInput содержит снимок баланса и введенные оператором суммы.
// OverdueFee и Discount необязательны, по умолчанию ноль.
type PaymentInput struct {
	Amount         decimal.Decimal
	CurrentBalance decimal.Decimal
	PrincipalDue   decimal.Decimal
	InterestDue    decimal.Decimal
	OverdueFee     decimal.Decimal
	Discount       decimal.Decimal
}

// Allocation представляет распределение платежа по корзинам.
// Инвариант: Interest + Principal + Overpayment == сумма платежа.
type Allocation struct {
	Interest    decimal.Decimal `json:"interest"`
	Principal   decimal.Decimal `json:"principal"`
	Overpayment decimal.Decimal `json:"overpayment"`
}

// Breakdown представляет предпросмотр платежа
type Breakdown struct {
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	PrincipalDue     decimal.Decimal `json:"principal_due"`
	InterestDue      decimal.Decimal `json:"interest_due"`
	OverdueFee       decimal.Decimal `json:"overdue_fee"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalDue         decimal.Decimal `json:"total_with_fee"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	IsFullPayment    bool            `json:"is_full_payment"`
	Allocation       Allocation      `json:"allocation"`
}

// PaymentBreakdown распределяет платеж по приоритету: сначала проценты,
// остаток в основной долг, излишек становится переплатой.
func PaymentBreakdown(in PaymentInput) (*Breakdown, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !in.CurrentBalance.IsPositive() {
		// При нулевом балансе платежи запрещены целиком
		return nil, domain.ErrNothingDue
	}

	totalDue := in.CurrentBalance.Add(in.OverdueFee).Sub(in.Discount)

	interest := decimal.Min(in.Amount, in.InterestDue)
	remaining := in.Amount.Sub(interest)
	principal := decimal.Min(remaining, in.PrincipalDue)
	overpayment := remaining.Sub(principal)

	return &Breakdown{
		PaymentAmount:    in.Amount,
		CurrentBalance:   in.CurrentBalance,
		PrincipalDue:     in.PrincipalDue,
		InterestDue:      in.InterestDue,
		OverdueFee:       in.OverdueFee,
		DiscountAmount:   in.Discount,
		TotalDue:         totalDue,
		RemainingBalance: decimal.Max(decimal.Zero, totalDue.Sub(in.Amount)),
		IsFullPayment:    in.Amount.GreaterThanOrEqual(totalDue),
		Allocation: Allocation{
			Interest:    interest,
			Principal:   principal,
			Overpayment: overpayment,
		},
	}, nil
}

// ExtensionInput содержит параметры продления
type ExtensionInput struct {
	Months      int
	FeePerMonth decimal.Decimal
	OverdueFee  decimal.Decimal
	Discount    decimal.Decimal
	Maturity    time.Time
}

// ExtensionQuote представляет предпросмотр продления
type ExtensionQuote struct {
	Months      int             `json:"months"`
	FeePerMonth decimal.Decimal `json:"fee_per_month"`
	TotalFee    decimal.Decimal `json:"total_fee"`
	OverdueFee  decimal.Decimal `json:"overdue_fee_amount"`
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	NewMaturity time.Time       `json:"new_maturity"`
}

// MinExtensionMonths и MaxExtensionMonths ограничивают срок продления
const (
	MinExtensionMonths = 1
	MaxExtensionMonths = 12
)

// ExtensionFee считает стоимость продления и новую дату выкупа.
// Итог не бывает отрицательным: скидка больше начислений дает ноль.
func ExtensionFee(in ExtensionInput) (*ExtensionQuote, error) {
	if in.Months < MinExtensionMonths || in.Months > MaxExtensionMonths {
		return nil, domain.ErrInvalidMonths
	}

	totalFee := in.FeePerMonth.Mul(decimal.NewFromInt(int64(in.Months)))
	finalAmount := decimal.Max(decimal.Zero, totalFee.Add(in.OverdueFee).Sub(in.Discount))

	return &ExtensionQuote{
		Months:      in.Months,
		FeePerMonth: in.FeePerMonth,
		TotalFee:    totalFee,
		OverdueFee:  in.OverdueFee,
		Discount:    in.Discount,
		FinalAmount: finalAmount,
		NewMaturity: AddMonths(in.Maturity, in.Months),
	}, nil
}

// AddMonths прибавляет календарные месяцы с прижатием дня к последнему
// дню итогового месяца: 31 января + 1 месяц = 28/29 февраля.
// time.AddDate здесь не подходит, он переносит лишние дни в следующий месяц.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// time.Date нормализует переполнение месяца сама
	firstOfTarget := time.Date(year, month+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth возвращает число дней в месяце: день 0 следующего месяца
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
