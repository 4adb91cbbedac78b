package service

import (
	"context"
	"fmt"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"go.uber.org/zap"
)

// DiscountLedger определяет серверную проверку скидок
type DiscountLedger interface {
	ValidateDiscount(ctx context.Context, d domain.Discount) (*upstream.ValidationResponse, error)
}

// DiscountService проверяет скидки: форму локально, существо на сервере
type DiscountService struct {
	ledger DiscountLedger
	logger *zap.Logger
}

// NewDiscountService создает новый DiscountService
func NewDiscountService(ledger DiscountLedger, logger *zap.Logger) *DiscountService {
	return &DiscountService{
		ledger: ledger,
		logger: logger,
	}
}

// Validate проверяет форму скидки и запрашивает решение сервера.
// Экран скидки должен коалесцировать вызовы тихим периодом
// (utils/debounce), чтобы не слать запрос на каждое нажатие клавиши.
func (s *DiscountService) Validate(ctx context.Context, d domain.Discount) (*upstream.ValidationResponse, error) {
	if err := checkDiscountShape(&d); err != nil {
		return nil, err
	}

	resp, err := s.ledger.ValidateDiscount(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("discount service: validation request failed: %w", err)
	}

	return resp, nil
}
