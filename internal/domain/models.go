package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus представляет статус залогового билета
type TransactionStatus string

const (
	TransactionStatusActive   TransactionStatus = "active"
	TransactionStatusOverdue  TransactionStatus = "overdue"
	TransactionStatusExtended TransactionStatus = "extended"
	TransactionStatusRedeemed TransactionStatus = "redeemed"
	TransactionStatusSold     TransactionStatus = "sold"
	TransactionStatusForfeit  TransactionStatus = "forfeited"
)

// SequenceKind представляет тип сущности для отображаемой нумерации
type SequenceKind string

const (
	SequenceKindTransaction SequenceKind = "transaction"
	SequenceKindExtension   SequenceKind = "extension"
)

// Префиксы отображаемых кодов по типу сущности
const (
	PrefixTransaction = "PW"
	PrefixExtension   = "EX"
)

// PawnItem представляет заложенную вещь
type PawnItem struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Condition   string          `json:"condition"`
}

// Extension представляет продление залога
type Extension struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Months        int             `json:"months"`
	FeePerMonth   decimal.Decimal `json:"fee_per_month"`
	TotalFee      decimal.Decimal `json:"total_fee"`
	NewMaturity   time.Time       `json:"new_maturity_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Transaction представляет залоговый билет.
// Авторитетное состояние живет на стороне ledger API, здесь хранится
// только производная копия из последнего ответа сервера.
type Transaction struct {
	ID                    string            `json:"id"`
	CustomerID            string            `json:"customer_id"`
	Status                TransactionStatus `json:"status"`
	LoanAmount            decimal.Decimal   `json:"loan_amount"`
	MonthlyInterestAmount decimal.Decimal   `json:"monthly_interest_amount"`
	MaturityDate          time.Time         `json:"maturity_date"`
	Items                 []PawnItem        `json:"items,omitempty"`
	Extensions            []Extension       `json:"extensions,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
}

// Balance представляет текущую задолженность по билету.
// Загружается заново перед каждым предпросмотром и после каждой мутации.
type Balance struct {
	TransactionID    string          `json:"transaction_id"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	PrincipalBalance decimal.Decimal `json:"principal_balance"`
	InterestDue      decimal.Decimal `json:"interest_due"`
	AsOf             time.Time       `json:"as_of"`
}

// Customer представляет клиента ломбарда
type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Discount представляет скидку, требующую подтверждения администратором.
// Здесь проверяется только форма полей, решение принимает ledger API.
type Discount struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
	PIN    string          `json:"admin_pin"`
}

// PaymentRecord представляет проведенный платеж из истории
type PaymentRecord struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	OverdueFee    decimal.Decimal `json:"overdue_fee"`
	Discount      decimal.Decimal `json:"discount"`
	IsVoided      bool            `json:"is_voided"`
	ProcessedAt   time.Time       `json:"processed_at"`
}

// ConfigSection представляет раздел бизнес-настроек
type ConfigSection string

const (
	ConfigSectionCompany         ConfigSection = "company"
	ConfigSectionFinancialPolicy ConfigSection = "financial-policy"
	ConfigSectionPrinter         ConfigSection = "printer"
	ConfigSectionForfeiture      ConfigSection = "forfeiture"
)

// BusinessConfig представляет раздел настроек с полями аудита
type BusinessConfig struct {
	Section   ConfigSection          `json:"section"`
	Values    map[string]interface{} `json:"values"`
	UpdatedAt time.Time              `json:"updated_at"`
	UpdatedBy string                 `json:"updated_by"`
}

// ValidSection проверяет, что имя раздела настроек известно
func ValidSection(s string) bool {
	switch ConfigSection(s) {
	case ConfigSectionCompany, ConfigSectionFinancialPolicy,
		ConfigSectionPrinter, ConfigSectionForfeiture:
		return true
	}
	return false
}
