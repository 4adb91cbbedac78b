package service

import (
	"context"
	"fmt"

	"github.com/avc/pawnshop-admin/internal/allocation"
	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/avc/pawnshop-admin/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentLedger определяет, что платежному сервису нужно от ledger API
type PaymentLedger interface {
	GetBalance(ctx context.Context, transactionID string) (*domain.Balance, error)
	SubmitPayment(ctx context.Context, req upstream.PaymentRequest) (*domain.PaymentRecord, error)
	ValidatePayment(ctx context.Context, req upstream.PaymentRequest) (*upstream.ValidationResponse, error)
	VoidPayment(ctx context.Context, paymentID, adminPIN string) (*domain.PaymentRecord, error)
	PaymentHistory(ctx context.Context, transactionID string) ([]*domain.PaymentRecord, error)
	SetOverdueFee(ctx context.Context, transactionID string, amount decimal.Decimal) error
}

// RefreshNotifier сигнализирует, что по билету нужно перечитать
// баланс и обновить статистику
type RefreshNotifier interface {
	NotifyTransaction(transactionID string)
}

// PaymentService предоставляет предпросмотр и проведение платежей
type PaymentService struct {
	ledger     PaymentLedger
	guard      allocation.Guard
	optimistic OptimisticUpdater
	refresh    RefreshNotifier
	logger     *zap.Logger
}

// NewPaymentService создает новый PaymentService
func NewPaymentService(
	ledger PaymentLedger,
	guard allocation.Guard,
	optimistic OptimisticUpdater,
	refresh RefreshNotifier,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		ledger:     ledger,
		guard:      guard,
		optimistic: optimistic,
		refresh:    refresh,
		logger:     logger,
	}
}

// PaymentDraft представляет ввод оператора для предпросмотра или отправки
type PaymentDraft struct {
	TransactionID string
	Amount        decimal.Decimal
	OverdueFee    decimal.Decimal
	Discount      *domain.Discount
	// Confirmed означает, что оператор явно подтвердил крупный платеж или выкуп
	Confirmed bool
}

// PaymentPreview представляет разбивку платежа для отображения
type PaymentPreview struct {
	Breakdown *allocation.Breakdown  `json:"breakdown"`
	Guard     allocation.GuardResult `json:"guard"`
}

// discountAmount возвращает сумму скидки или ноль
func discountAmount(d *domain.Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Amount
}

// discountValidators описывает поля формы скидки.
// Та же карта валидаторов обслуживает и экран скидки,
// и проверку перед отправкой платежа или продления.
var discountValidators = map[string]validation.FieldValidator[domain.Discount]{
	"amount": func(d domain.Discount) validation.Result {
		return validation.Amount(d.Amount, decimal.Zero, decimal.NewFromInt(1_000_000), true)
	},
	"reason": func(d domain.Discount) validation.Result {
		return validation.TextLength(d.Reason, 1, 200)
	},
	"admin_pin": func(d domain.Discount) validation.Result {
		return validation.AdminPIN(d.PIN)
	},
}

// checkDiscountShape проверяет форму скидки; решение о принятии за сервером
func checkDiscountShape(d *domain.Discount) error {
	if d == nil {
		return nil
	}
	errs := validation.NewForm(*d, discountValidators).ValidateAll()
	if _, bad := errs["amount"]; bad {
		return domain.ErrInvalidDiscount
	}
	if _, bad := errs["reason"]; bad {
		return domain.ErrInvalidDiscount
	}
	if _, bad := errs["admin_pin"]; bad {
		return domain.ErrInvalidPIN
	}
	return nil
}

// Preview считает разбивку платежа по свежему балансу.
// Никаких побочных эффектов: результат живет только на экране.
func (s *PaymentService) Preview(ctx context.Context, draft PaymentDraft) (*PaymentPreview, error) {
	balance, err := s.ledger.GetBalance(ctx, draft.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("payment service: failed to load balance for %s: %w", draft.TransactionID, err)
	}

	breakdown, err := allocation.PaymentBreakdown(allocation.PaymentInput{
		Amount:         draft.Amount,
		CurrentBalance: balance.CurrentBalance,
		PrincipalDue:   balance.PrincipalBalance,
		InterestDue:    balance.InterestDue,
		OverdueFee:     draft.OverdueFee,
		Discount:       discountAmount(draft.Discount),
	})
	if err != nil {
		return nil, err
	}

	return &PaymentPreview{
		Breakdown: breakdown,
		Guard:     s.guard.Check(draft.Amount, balance.CurrentBalance, breakdown.IsFullPayment),
	}, nil
}

// Submit проводит платеж через ledger API.
// Неудачная отправка не оставляет частичных изменений: кеш не трогается,
// сигнал обновления не посылается.
func (s *PaymentService) Submit(ctx context.Context, draft PaymentDraft) (*domain.PaymentRecord, error) {
	if err := checkDiscountShape(draft.Discount); err != nil {
		return nil, err
	}

	preview, err := s.Preview(ctx, draft)
	if err != nil {
		return nil, err
	}

	if preview.Guard.UnusuallyLarge && !draft.Confirmed {
		return nil, domain.ErrUnusuallyLarge
	}
	if preview.Guard.NeedsConfirmation && !draft.Confirmed {
		return nil, domain.ErrNeedsConfirmation
	}

	req := upstream.PaymentRequest{
		TransactionID:  draft.TransactionID,
		Amount:         draft.Amount,
		OverdueFee:     draft.OverdueFee,
		Discount:       draft.Discount,
		IdempotencyKey: uuid.New().String(),
	}

	record, err := s.submitWithFallback(ctx, req)
	if err != nil {
		return nil, err
	}

	s.refresh.NotifyTransaction(draft.TransactionID)
	s.logger.Info("payment submitted",
		zap.String("transaction_id", draft.TransactionID),
		zap.String("payment_id", record.ID),
	)

	return record, nil
}

// submitWithFallback пробует оптимистичный путь, при его отсутствии
// или сбое молча уходит на прямой вызов
func (s *PaymentService) submitWithFallback(ctx context.Context, req upstream.PaymentRequest) (*domain.PaymentRecord, error) {
	record, handled, err := s.optimistic.TryPayment(ctx, req)
	if handled && err == nil {
		return record, nil
	}
	if err != nil {
		s.logger.Debug("optimistic payment path failed, falling back to direct call",
			zap.Error(err))
	}

	return s.ledger.SubmitPayment(ctx, req)
}

// Validate выполняет серверную предварительную проверку суммы
func (s *PaymentService) Validate(ctx context.Context, draft PaymentDraft) (*upstream.ValidationResponse, error) {
	if !draft.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	return s.ledger.ValidatePayment(ctx, upstream.PaymentRequest{
		TransactionID: draft.TransactionID,
		Amount:        draft.Amount,
		OverdueFee:    draft.OverdueFee,
		Discount:      draft.Discount,
	})
}

// Void отменяет проведенный платеж (административное действие)
func (s *PaymentService) Void(ctx context.Context, paymentID, adminPIN string) (*domain.PaymentRecord, error) {
	if res := validation.AdminPIN(adminPIN); !res.OK {
		return nil, domain.ErrInvalidPIN
	}

	record, err := s.ledger.VoidPayment(ctx, paymentID, adminPIN)
	if err != nil {
		return nil, fmt.Errorf("payment service: failed to void payment %s: %w", paymentID, err)
	}

	s.refresh.NotifyTransaction(record.TransactionID)
	return record, nil
}

// History возвращает историю платежей по билету
func (s *PaymentService) History(ctx context.Context, transactionID string) ([]*domain.PaymentRecord, error) {
	records, err := s.ledger.PaymentHistory(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("payment service: failed to load history for %s: %w", transactionID, err)
	}
	return records, nil
}

// SetOverdueFee прикрепляет просрочечный сбор к билету
func (s *PaymentService) SetOverdueFee(ctx context.Context, transactionID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}

	if err := s.ledger.SetOverdueFee(ctx, transactionID, amount); err != nil {
		return fmt.Errorf("payment service: failed to set overdue fee for %s: %w", transactionID, err)
	}

	s.refresh.NotifyTransaction(transactionID)
	return nil
}
