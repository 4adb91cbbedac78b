package handlers

import (
	"context"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/service"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentProcessor определяет методы работы с платежами
type PaymentProcessor interface {
	Preview(ctx context.Context, draft service.PaymentDraft) (*service.PaymentPreview, error)
	Submit(ctx context.Context, draft service.PaymentDraft) (*domain.PaymentRecord, error)
	Validate(ctx context.Context, draft service.PaymentDraft) (*upstream.ValidationResponse, error)
	Void(ctx context.Context, paymentID, adminPIN string) (*domain.PaymentRecord, error)
	History(ctx context.Context, transactionID string) ([]*domain.PaymentRecord, error)
	SetOverdueFee(ctx context.Context, transactionID string, amount decimal.Decimal) error
}

type PaymentHandler struct {
	payments PaymentProcessor
	logger   *zap.Logger
}

func NewPaymentHandler(payments PaymentProcessor, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

// paymentRequest представляет тело запроса предпросмотра и проведения
type paymentRequest struct {
	TransactionID string           `json:"transaction_id"`
	Amount        decimal.Decimal  `json:"amount"`
	OverdueFee    decimal.Decimal  `json:"overdue_fee"`
	Discount      *domain.Discount `json:"discount,omitempty"`
	Confirmed     bool             `json:"confirmed"`
}

func (req paymentRequest) draft() service.PaymentDraft {
	return service.PaymentDraft{
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		OverdueFee:    req.OverdueFee,
		Discount:      req.Discount,
		Confirmed:     req.Confirmed,
	}
}

// Preview считает разбивку платежа без побочных эффектов
func (h *PaymentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	preview, err := h.payments.Preview(r.Context(), req.draft())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, preview)
}

// Submit проводит платеж
func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	record, err := h.payments.Submit(r.Context(), req.draft())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, record)
}

// Validate выполняет серверную предварительную проверку суммы
func (h *PaymentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	resp, err := h.payments.Validate(r.Context(), req.draft())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// voidRequest представляет тело запроса отмены платежа
type voidRequest struct {
	AdminPIN string `json:"admin_pin"`
}

// Void отменяет проведенный платеж
func (h *PaymentHandler) Void(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")

	var req voidRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	record, err := h.payments.Void(r.Context(), paymentID, req.AdminPIN)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, record)
}

// History возвращает историю платежей по билету
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")

	records, err := h.payments.History(r.Context(), transactionID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, records)
}

// overdueFeeRequest представляет тело запроса установки сбора за просрочку
type overdueFeeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SetOverdueFee прикрепляет просрочечный сбор к билету
func (h *PaymentHandler) SetOverdueFee(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")

	var req overdueFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.payments.SetOverdueFee(r.Context(), transactionID, req.Amount); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
