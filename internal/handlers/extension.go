package handlers

import (
	"context"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/allocation"
	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/service"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExtensionProcessor определяет методы работы с продлениями
type ExtensionProcessor interface {
	Quote(ctx context.Context, draft service.ExtensionDraft) (*allocation.ExtensionQuote, error)
	Submit(ctx context.Context, draft service.ExtensionDraft) (*domain.Extension, error)
	Validate(ctx context.Context, draft service.ExtensionDraft) (*upstream.ValidationResponse, error)
}

type ExtensionHandler struct {
	extensions ExtensionProcessor
	logger     *zap.Logger
}

func NewExtensionHandler(extensions ExtensionProcessor, logger *zap.Logger) *ExtensionHandler {
	return &ExtensionHandler{
		extensions: extensions,
		logger:     logger,
	}
}

// extensionRequest представляет тело запроса расчета и проведения
type extensionRequest struct {
	TransactionID string           `json:"transaction_id"`
	Months        int              `json:"months"`
	FeePerMonth   decimal.Decimal  `json:"fee_per_month"`
	OverdueFee    decimal.Decimal  `json:"overdue_fee"`
	Discount      *domain.Discount `json:"discount,omitempty"`
}

func (req extensionRequest) draft() service.ExtensionDraft {
	return service.ExtensionDraft{
		TransactionID: req.TransactionID,
		Months:        req.Months,
		FeePerMonth:   req.FeePerMonth,
		OverdueFee:    req.OverdueFee,
		Discount:      req.Discount,
	}
}

// Quote считает стоимость продления и новую дату выкупа
func (h *ExtensionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req extensionRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	quote, err := h.extensions.Quote(r.Context(), req.draft())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, quote)
}

// Submit проводит продление
func (h *ExtensionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req extensionRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ext, err := h.extensions.Submit(r.Context(), req.draft())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, ext)
}

// Validate выполняет серверную предварительную проверку продления
func (h *ExtensionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req extensionRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	resp, err := h.extensions.Validate(r.Context(), req.draft())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
