package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentRequest представляет платеж для отправки в ledger API
type PaymentRequest struct {
	TransactionID  string           `json:"transaction_id"`
	Amount         decimal.Decimal  `json:"amount"`
	OverdueFee     decimal.Decimal  `json:"overdue_fee"`
	Discount       *domain.Discount `json:"discount,omitempty"`
	IdempotencyKey string           `json:"idempotency_key"`
}

// ValidationResponse представляет ответ серверной предварительной проверки
type ValidationResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// SubmitPayment проводит платеж
func (c *Client) SubmitPayment(ctx context.Context, req PaymentRequest) (*domain.PaymentRecord, error) {
	var record domain.PaymentRecord
	if err := c.do(ctx, http.MethodPost, "/api/v1/payment/", req, &record); err != nil {
		return nil, err
	}

	c.InvalidateTransaction(req.TransactionID)
	return &record, nil
}

// ValidatePayment выполняет предварительную проверку суммы платежа
func (c *Client) ValidatePayment(ctx context.Context, req PaymentRequest) (*ValidationResponse, error) {
	var resp ValidationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/payment/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VoidPayment отменяет проведенный платеж (административное действие)
func (c *Client) VoidPayment(ctx context.Context, paymentID, adminPIN string) (*domain.PaymentRecord, error) {
	body := struct {
		PIN string `json:"admin_pin"`
	}{PIN: adminPIN}

	var record domain.PaymentRecord
	path := fmt.Sprintf("/api/v1/payment/%s/void", paymentID)
	if err := c.do(ctx, http.MethodPost, path, body, &record); err != nil {
		return nil, err
	}

	c.InvalidateTransaction(record.TransactionID)
	return &record, nil
}

// PaymentHistory возвращает историю платежей по билету
func (c *Client) PaymentHistory(ctx context.Context, transactionID string) ([]*domain.PaymentRecord, error) {
	var records []*domain.PaymentRecord
	path := fmt.Sprintf("/api/v1/payment/transaction/%s", transactionID)
	if err := c.getCached(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SetOverdueFee прикрепляет просрочечный сбор к билету перед платежом
func (c *Client) SetOverdueFee(ctx context.Context, transactionID string, amount decimal.Decimal) error {
	body := struct {
		Amount decimal.Decimal `json:"amount"`
	}{Amount: amount}

	path := fmt.Sprintf("/api/v1/overdue-fee/%s/set", transactionID)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return err
	}

	c.InvalidateTransaction(transactionID)
	return nil
}
