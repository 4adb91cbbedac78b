package service

import (
	"context"
	"fmt"

	"github.com/avc/pawnshop-admin/internal/allocation"
	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExtensionLedger определяет, что сервису продлений нужно от ledger API
type ExtensionLedger interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	SubmitExtension(ctx context.Context, req upstream.ExtensionRequest) (*domain.Extension, error)
	ValidateExtension(ctx context.Context, req upstream.ExtensionRequest) (*upstream.ValidationResponse, error)
}

// ExtensionService предоставляет расчет и проведение продлений
type ExtensionService struct {
	ledger     ExtensionLedger
	optimistic OptimisticUpdater
	refresh    RefreshNotifier
	logger     *zap.Logger
}

// NewExtensionService создает новый ExtensionService
func NewExtensionService(
	ledger ExtensionLedger,
	optimistic OptimisticUpdater,
	refresh RefreshNotifier,
	logger *zap.Logger,
) *ExtensionService {
	return &ExtensionService{
		ledger:     ledger,
		optimistic: optimistic,
		refresh:    refresh,
		logger:     logger,
	}
}

// ExtensionDraft представляет ввод оператора для расчета или отправки.
// FeePerMonth необязателен: по умолчанию берется месячный процент билета.
type ExtensionDraft struct {
	TransactionID string
	Months        int
	FeePerMonth   decimal.Decimal
	OverdueFee    decimal.Decimal
	Discount      *domain.Discount
}

// Quote считает стоимость продления и новую дату выкупа.
// Побочных эффектов нет, итоговую проводку делает сервер.
func (s *ExtensionService) Quote(ctx context.Context, draft ExtensionDraft) (*allocation.ExtensionQuote, error) {
	tx, err := s.ledger.GetTransaction(ctx, draft.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("extension service: failed to load transaction %s: %w", draft.TransactionID, err)
	}

	feePerMonth := draft.FeePerMonth
	if feePerMonth.IsZero() {
		feePerMonth = tx.MonthlyInterestAmount
	}

	quote, err := allocation.ExtensionFee(allocation.ExtensionInput{
		Months:      draft.Months,
		FeePerMonth: feePerMonth,
		OverdueFee:  draft.OverdueFee,
		Discount:    discountAmount(draft.Discount),
		Maturity:    tx.MaturityDate,
	})
	if err != nil {
		return nil, err
	}

	return quote, nil
}

// Submit проводит продление через ledger API.
// Неудачная отправка не оставляет частичных изменений.
func (s *ExtensionService) Submit(ctx context.Context, draft ExtensionDraft) (*domain.Extension, error) {
	if err := checkDiscountShape(draft.Discount); err != nil {
		return nil, err
	}

	// Quote проверяет и диапазон месяцев
	quote, err := s.Quote(ctx, draft)
	if err != nil {
		return nil, err
	}

	req := upstream.ExtensionRequest{
		TransactionID:  draft.TransactionID,
		Months:         quote.Months,
		FeePerMonth:    quote.FeePerMonth,
		OverdueFee:     draft.OverdueFee,
		Discount:       draft.Discount,
		IdempotencyKey: uuid.New().String(),
	}

	ext, err := s.submitWithFallback(ctx, req)
	if err != nil {
		return nil, err
	}

	s.refresh.NotifyTransaction(draft.TransactionID)
	s.logger.Info("extension submitted",
		zap.String("transaction_id", draft.TransactionID),
		zap.Int("months", quote.Months),
	)

	return ext, nil
}

func (s *ExtensionService) submitWithFallback(ctx context.Context, req upstream.ExtensionRequest) (*domain.Extension, error) {
	ext, handled, err := s.optimistic.TryExtension(ctx, req)
	if handled && err == nil {
		return ext, nil
	}
	if err != nil {
		s.logger.Debug("optimistic extension path failed, falling back to direct call",
			zap.Error(err))
	}

	return s.ledger.SubmitExtension(ctx, req)
}

// Validate выполняет серверную предварительную проверку продления
func (s *ExtensionService) Validate(ctx context.Context, draft ExtensionDraft) (*upstream.ValidationResponse, error) {
	if draft.Months < allocation.MinExtensionMonths || draft.Months > allocation.MaxExtensionMonths {
		return nil, domain.ErrInvalidMonths
	}

	return s.ledger.ValidateExtension(ctx, upstream.ExtensionRequest{
		TransactionID: draft.TransactionID,
		Months:        draft.Months,
		FeePerMonth:   draft.FeePerMonth,
		OverdueFee:    draft.OverdueFee,
		Discount:      draft.Discount,
	})
}
