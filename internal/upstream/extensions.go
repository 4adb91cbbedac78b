package upstream

import (
	"context"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// ExtensionRequest представляет продление для отправки в ledger API
type ExtensionRequest struct {
	TransactionID  string           `json:"transaction_id"`
	Months         int              `json:"months"`
	FeePerMonth    decimal.Decimal  `json:"fee_per_month"`
	OverdueFee     decimal.Decimal  `json:"overdue_fee"`
	Discount       *domain.Discount `json:"discount,omitempty"`
	IdempotencyKey string           `json:"idempotency_key"`
}

// SubmitExtension проводит продление залога
func (c *Client) SubmitExtension(ctx context.Context, req ExtensionRequest) (*domain.Extension, error) {
	var ext domain.Extension
	if err := c.do(ctx, http.MethodPost, "/api/v1/extension/", req, &ext); err != nil {
		return nil, err
	}

	c.InvalidateTransaction(req.TransactionID)
	return &ext, nil
}

// ValidateExtension выполняет предварительную проверку продления
func (c *Client) ValidateExtension(ctx context.Context, req ExtensionRequest) (*ValidationResponse, error) {
	var resp ValidationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/extension/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateDiscount проверяет скидку на сервере: решение о принятии
// скидки и верности PIN принимает только ledger API
func (c *Client) ValidateDiscount(ctx context.Context, d domain.Discount) (*ValidationResponse, error) {
	var resp ValidationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/discount/validate", d, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
