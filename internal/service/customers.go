package service

import (
	"context"
	"fmt"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"go.uber.org/zap"
)

// CustomerLedger определяет чтение клиентов из ledger API
type CustomerLedger interface {
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	CheckEligibility(ctx context.Context, customerID string) (*upstream.ValidationResponse, error)
}

// CustomerService отдает данные клиентов и проверку права на займ
type CustomerService struct {
	ledger CustomerLedger
	logger *zap.Logger
}

// NewCustomerService создает новый CustomerService
func NewCustomerService(ledger CustomerLedger, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		ledger: ledger,
		logger: logger,
	}
}

// Get возвращает клиента
func (s *CustomerService) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.ledger.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer service: failed to load %s: %w", customerID, err)
	}
	return customer, nil
}

// List возвращает список клиентов
func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.ledger.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("customer service: failed to list customers: %w", err)
	}
	return customers, nil
}

// Eligibility проверяет право клиента на новый займ.
// Правила (лимит активных займов и прочее) живут на сервере.
func (s *CustomerService) Eligibility(ctx context.Context, customerID string) (*upstream.ValidationResponse, error) {
	resp, err := s.ledger.CheckEligibility(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer service: eligibility check failed for %s: %w", customerID, err)
	}
	return resp, nil
}
