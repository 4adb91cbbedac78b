package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"go.uber.org/zap"
)

// ErrorResponse представляет единый конверт ошибки для клиента
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON сериализует ответ с указанным статусом
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError переводит ошибку сервисного слоя в HTTP-ответ.
// Ошибки формы дают 422, бизнес-отказы 409, ошибки ledger API
// транслируются по их категории.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, detail := classifyError(err)

	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}

	writeJSON(w, logger, status, ErrorResponse{
		Status:  status,
		Message: http.StatusText(status),
		Detail:  detail,
	})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidMonths),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, domain.ErrInvalidPIN),
		errors.Is(err, domain.ErrUnknownSection):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrNothingDue),
		errors.Is(err, domain.ErrNeedsConfirmation),
		errors.Is(err, domain.ErrUnusuallyLarge):
		return http.StatusConflict, err.Error()

	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound, err.Error()
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Category {
		case upstream.CategoryValidation:
			return http.StatusUnprocessableEntity, apiErr.Message
		case upstream.CategoryAuthentication:
			return http.StatusUnauthorized, apiErr.Message
		case upstream.CategoryBusiness:
			return http.StatusConflict, apiErr.Message
		case upstream.CategoryNetwork, upstream.CategoryServer:
			return http.StatusBadGateway, apiErr.Message
		}
		return http.StatusInternalServerError, apiErr.Message
	}

	return http.StatusInternalServerError, ""
}

// decodeJSON разбирает тело запроса, отклоняя неизвестные поля
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
