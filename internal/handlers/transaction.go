package handlers

import (
	"context"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TransactionReader определяет чтение билетов для экрана
type TransactionReader interface {
	Get(ctx context.Context, transactionID string) (*service.TransactionView, error)
	List(ctx context.Context) ([]*service.TransactionView, error)
	Balance(ctx context.Context, transactionID string) (*service.BalanceView, error)
	ResetSequences(ctx context.Context) error
}

type TransactionHandler struct {
	transactions TransactionReader
	logger       *zap.Logger
}

func NewTransactionHandler(transactions TransactionReader, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger,
	}
}

// Get возвращает билет с отображаемым кодом
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.transactions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, view)
}

// List возвращает все билеты
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.transactions.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if len(views) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, views)
}

// Balance возвращает свежую задолженность по билету
func (h *TransactionHandler) Balance(w http.ResponseWriter, r *http.Request) {
	view, err := h.transactions.Balance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, view)
}

// ResetSequences сбрасывает отображаемую нумерацию
func (h *TransactionHandler) ResetSequences(w http.ResponseWriter, r *http.Request) {
	if err := h.transactions.ResetSequences(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
