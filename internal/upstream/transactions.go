package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/domain"
)

// entityNotFound заменяет серверный 404 по конкретной сущности
// на доменную ошибку, остальные ошибки проходят как есть
func entityNotFound(err error, sentinel error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return sentinel
	}
	return err
}

// GetTransaction возвращает залоговый билет
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var tx domain.Transaction
	path := fmt.Sprintf("/api/v1/transaction/%s", transactionID)
	if err := c.getCached(ctx, path, &tx); err != nil {
		return nil, entityNotFound(err, domain.ErrTransactionNotFound)
	}
	return &tx, nil
}

// ListTransactions возвращает полный список билетов.
// Список не кешируется: он используется для инициализации нумерации
// и должен отражать актуальное состояние.
func (c *Client) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transaction/", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetBalance загружает задолженность по билету.
// Баланс не кешируется: предпросмотр платежа или продления всегда
// считается по текущему состоянию сервера, иначе мутация другого
// клиента оставит расчет на устаревшем снимке.
func (c *Client) GetBalance(ctx context.Context, transactionID string) (*domain.Balance, error) {
	var balance domain.Balance
	path := fmt.Sprintf("/api/v1/transaction/%s/balance", transactionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &balance); err != nil {
		return nil, entityNotFound(err, domain.ErrTransactionNotFound)
	}
	balance.TransactionID = transactionID
	return &balance, nil
}

// GetCustomer возвращает клиента
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	var customer domain.Customer
	path := fmt.Sprintf("/api/v1/customer/%s", customerID)
	if err := c.getCached(ctx, path, &customer); err != nil {
		return nil, entityNotFound(err, domain.ErrCustomerNotFound)
	}
	return &customer, nil
}

// ListCustomers возвращает список клиентов
func (c *Client) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	if err := c.getCached(ctx, "/api/v1/customer/", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CheckEligibility проверяет право клиента на новый займ
func (c *Client) CheckEligibility(ctx context.Context, customerID string) (*ValidationResponse, error) {
	var resp ValidationResponse
	path := fmt.Sprintf("/api/v1/customer/%s/eligibility", customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
