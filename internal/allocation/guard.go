package allocation

import "github.com/shopspring/decimal"

// Guard содержит пороги защиты от ошибочного ввода суммы.
// Порог "необычно большой" служит эвристикой против опечаток оператора,
// а не серверный лимит, поэтому все значения настраиваемые.
type Guard struct {
	// Multiple и Slack задают потолок: max(Multiple*balance, balance+Slack)
	Multiple decimal.Decimal
	Slack    decimal.Decimal
	// ConfirmOver задает сумму, начиная с которой нужно явное подтверждение
	ConfirmOver decimal.Decimal
}

// DefaultGuard возвращает пороги, принятые в магазине по умолчанию
func DefaultGuard() Guard {
	return Guard{
		Multiple:    decimal.NewFromInt(5),
		Slack:       decimal.NewFromInt(1000),
		ConfirmOver: decimal.NewFromInt(500),
	}
}

// GuardResult описывает, какие подтверждения требуются перед отправкой
type GuardResult struct {
	// NeedsConfirmation означает крупный платеж или полное погашение,
	// оператор должен подтвердить шаг явно
	NeedsConfirmation bool `json:"needs_confirmation"`
	// UnusuallyLarge означает сумму выше потолка, отправка блокируется
	// до отдельного подтверждения
	UnusuallyLarge bool `json:"unusually_large"`
	// Limit содержит вычисленный потолок для сообщения оператору
	Limit decimal.Decimal `json:"limit"`
}

// Check оценивает введенную сумму против текущего баланса
func (g Guard) Check(amount, balance decimal.Decimal, isFullPayment bool) GuardResult {
	limit := decimal.Max(g.Multiple.Mul(balance), balance.Add(g.Slack))

	return GuardResult{
		NeedsConfirmation: isFullPayment || amount.GreaterThan(g.ConfirmOver),
		UnusuallyLarge:    amount.GreaterThan(limit),
		Limit:             limit,
	}
}
