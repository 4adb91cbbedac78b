package service

import (
	"context"
	"fmt"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/format"
	"go.uber.org/zap"
)

// TransactionLedger определяет чтение билетов из ledger API
type TransactionLedger interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
	GetBalance(ctx context.Context, transactionID string) (*domain.Balance, error)
}

// SequenceNumberer определяет выдачу отображаемых кодов
type SequenceNumberer interface {
	DisplayCode(ctx context.Context, kind domain.SequenceKind, id string) (string, error)
	BulkInitialize(ctx context.Context, transactions []*domain.Transaction) error
	Reset(ctx context.Context) error
}

// TransactionService отдает билеты в виде, готовом для экрана:
// с отображаемыми кодами, суммами и датами в поясе магазина
type TransactionService struct {
	ledger    TransactionLedger
	sequences SequenceNumberer
	formatter *format.Formatter
	logger    *zap.Logger
}

// NewTransactionService создает новый TransactionService
func NewTransactionService(
	ledger TransactionLedger,
	sequences SequenceNumberer,
	formatter *format.Formatter,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		ledger:    ledger,
		sequences: sequences,
		formatter: formatter,
		logger:    logger,
	}
}

// ExtensionView представляет продление для экрана
type ExtensionView struct {
	DisplayID   string `json:"display_id"`
	ID          string `json:"id"`
	Months      int    `json:"months"`
	TotalFee    string `json:"total_fee"`
	NewMaturity string `json:"new_maturity_date"`
}

// TransactionView представляет билет для экрана
type TransactionView struct {
	DisplayID       string                   `json:"display_id"`
	ID              string                   `json:"id"`
	CustomerID      string                   `json:"customer_id"`
	Status          domain.TransactionStatus `json:"status"`
	LoanAmount      string                   `json:"loan_amount"`
	MonthlyInterest string                   `json:"monthly_interest_amount"`
	MaturityDate    string                   `json:"maturity_date"`
	CreatedAt       string                   `json:"created_at"`
	Items           []domain.PawnItem        `json:"items,omitempty"`
	Extensions      []ExtensionView          `json:"extensions,omitempty"`
}

// BalanceView представляет задолженность для экрана
type BalanceView struct {
	TransactionID    string `json:"transaction_id"`
	CurrentBalance   string `json:"current_balance"`
	PrincipalBalance string `json:"principal_balance"`
	InterestDue      string `json:"interest_due"`
	AsOf             string `json:"as_of"`
}

// Get возвращает билет с отображаемым кодом и датами в поясе магазина
func (s *TransactionService) Get(ctx context.Context, transactionID string) (*TransactionView, error) {
	tx, err := s.ledger.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction service: failed to load %s: %w", transactionID, err)
	}

	return s.decorate(ctx, tx)
}

// List возвращает все билеты, предварительно инициализировав нумерацию
// в хронологическом порядке
func (s *TransactionService) List(ctx context.Context) ([]*TransactionView, error) {
	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("transaction service: failed to list transactions: %w", err)
	}

	if err := s.sequences.BulkInitialize(ctx, txs); err != nil {
		return nil, err
	}

	views := make([]*TransactionView, 0, len(txs))
	for _, tx := range txs {
		view, err := s.decorate(ctx, tx)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// Balance возвращает свежую задолженность с суммами для экрана
func (s *TransactionService) Balance(ctx context.Context, transactionID string) (*BalanceView, error) {
	balance, err := s.ledger.GetBalance(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction service: failed to load balance for %s: %w", transactionID, err)
	}

	return &BalanceView{
		TransactionID:    balance.TransactionID,
		CurrentBalance:   format.Currency(balance.CurrentBalance),
		PrincipalBalance: format.Currency(balance.PrincipalBalance),
		InterestDue:      format.Currency(balance.InterestDue),
		AsOf:             s.formatter.BusinessTime(balance.AsOf),
	}, nil
}

// ResetSequences сбрасывает отображаемую нумерацию (административное действие)
func (s *TransactionService) ResetSequences(ctx context.Context) error {
	return s.sequences.Reset(ctx)
}

// decorate собирает экранное представление билета
func (s *TransactionService) decorate(ctx context.Context, tx *domain.Transaction) (*TransactionView, error) {
	code, err := s.sequences.DisplayCode(ctx, domain.SequenceKindTransaction, tx.ID)
	if err != nil {
		return nil, err
	}

	view := &TransactionView{
		DisplayID:       code,
		ID:              tx.ID,
		CustomerID:      tx.CustomerID,
		Status:          tx.Status,
		LoanAmount:      format.Currency(tx.LoanAmount),
		MonthlyInterest: format.Currency(tx.MonthlyInterestAmount),
		MaturityDate:    s.formatter.BusinessDate(tx.MaturityDate),
		CreatedAt:       s.formatter.BusinessTime(tx.CreatedAt),
		Items:           tx.Items,
	}

	for _, ext := range tx.Extensions {
		extCode, err := s.sequences.DisplayCode(ctx, domain.SequenceKindExtension, ext.ID)
		if err != nil {
			return nil, err
		}
		view.Extensions = append(view.Extensions, ExtensionView{
			DisplayID:   extCode,
			ID:          ext.ID,
			Months:      ext.Months,
			TotalFee:    format.Currency(ext.TotalFee),
			NewMaturity: s.formatter.BusinessDate(ext.NewMaturity),
		})
	}

	return view, nil
}
