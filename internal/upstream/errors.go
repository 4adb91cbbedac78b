package upstream

import (
	"fmt"
	"net/http"
	"strings"
)

// Category классифицирует ошибку ledger API для слоя представления
type Category string

const (
	// CategoryValidation означает исправимую оператором ошибку формы (4xx)
	CategoryValidation Category = "validation"
	// CategoryAuthentication означает 401/403, сессия истекла
	CategoryAuthentication Category = "authentication"
	// CategoryBusiness означает отказ бизнес-правила сервера (409/412)
	CategoryBusiness Category = "business"
	// CategoryNetwork означает сбой соединения
	CategoryNetwork Category = "network"
	// CategoryServer означает 5xx
	CategoryServer Category = "server"
	// CategoryUnknown означает все остальное
	CategoryUnknown Category = "unknown"
)

// APIError представляет нормализованную ошибку ledger API.
// Все ответы с ошибкой приводятся к форме {status, message, detail}.
type APIError struct {
	Status   int      `json:"status"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
	Category Category `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger API error %d (%s): %s", e.Status, e.Category, e.Message)
}

// classify определяет категорию по статусу и тексту сообщения.
// 401/403 означают истекшую сессию, кроме отказов по PIN администратора:
// их сервер тоже шлет как 403, но для оператора это ошибка ввода.
func classify(status int, message string) Category {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if strings.Contains(strings.ToLower(message), "pin") {
			return CategoryValidation
		}
		return CategoryAuthentication
	case status == http.StatusConflict || status == http.StatusPreconditionFailed:
		return CategoryBusiness
	case status >= 400 && status < 500:
		return CategoryValidation
	case status >= 500:
		return CategoryServer
	default:
		return CategoryUnknown
	}
}

// networkError оборачивает сбой соединения в APIError
func networkError(err error) *APIError {
	return &APIError{
		Status:   0,
		Message:  "failed to reach ledger API",
		Detail:   err.Error(),
		Category: CategoryNetwork,
	}
}
