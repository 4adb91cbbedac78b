package handlers

import (
	"context"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CustomerReader определяет чтение клиентов для экрана
type CustomerReader interface {
	Get(ctx context.Context, customerID string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Eligibility(ctx context.Context, customerID string) (*upstream.ValidationResponse, error)
}

type CustomerHandler struct {
	customers CustomerReader
	logger    *zap.Logger
}

func NewCustomerHandler(customers CustomerReader, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		logger:    logger,
	}
}

// Get возвращает клиента
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, customer)
}

// List возвращает список клиентов
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if len(customers) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, customers)
}

// Eligibility проверяет право клиента на новый займ
func (h *CustomerHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	resp, err := h.customers.Eligibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
