// Package upstream содержит клиент авторитетного pawn ledger API.
// Клиент только переносит данные: расчеты проводок, проверку прав
// и переходы статусов выполняет сервер. Ошибки нормализуются в
// APIError с категорией, автоматических повторов нет: каждый retry
// это явное действие оператора.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	requestTimeout  = 10 * time.Second
	defaultCacheTTL = 30 * time.Second

	timezoneHeader = "X-Client-Timezone"
)

// ClientConfig содержит параметры подключения к ledger API
type ClientConfig struct {
	BaseURL string
	// Token содержит bearer-токен, выданный при настройке; клиент не выпускает
	// и не проверяет его сам, только прикладывает к запросам
	Token string
	// Timezone задает пояс магазина, уходит в заголовке каждого запроса
	Timezone string
	// CacheTTL задает время жизни кеша GET-ответов
	CacheTTL time.Duration
}

// Client реализует доступ к ledger API
type Client struct {
	baseURL    string
	token      string
	timezone   string
	httpClient *http.Client
	cache      *ttlCache
	logger     *zap.Logger
}

// NewClient создает новый Client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		timezone: cfg.Timezone,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cache:  newTTLCache(ttl),
		logger: logger,
	}
}

// do выполняет запрос и декодирует успешный ответ в out.
// Ответы с кодом >= 400 приводятся к APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ledger client: failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("ledger client: failed to create request: %w", err)
	}

	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode >= 400 {
		return c.normalizeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("ledger client: failed to decode response: %w", err)
		}
	}

	return nil
}

// getCached выполняет GET с коротким кешем ответа
func (c *Client) getCached(ctx context.Context, path string, out any) error {
	if data, ok := c.cache.Get(path); ok {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
		// Испорченная запись не фатальна, просто идем за свежим ответом
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("ledger client: failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode >= 400 {
		return c.normalizeError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("ledger client: failed to decode response: %w", err)
	}

	c.cache.Set(path, data)
	return nil
}

// setHeaders прикладывает токен и пояс магазина
func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set(timezoneHeader, c.timezone)
	req.Header.Set("Accept", "application/json")
}

// normalizeError приводит тело ошибки к форме {status, message, detail}
func (c *Client) normalizeError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var parsed struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
		apiErr.Detail = parsed.Detail
	} else {
		apiErr.Message = http.StatusText(status)
		apiErr.Detail = string(body)
	}

	apiErr.Category = classify(status, apiErr.Message)

	c.logger.Warn("ledger API error",
		zap.Int("status", status),
		zap.String("category", string(apiErr.Category)),
		zap.String("message", apiErr.Message),
	)

	return apiErr
}

// InvalidateTransaction сбрасывает кеш по одному билету.
// Вызывается после каждой успешной мутации: кешу через мутацию
// доверять нельзя.
func (c *Client) InvalidateTransaction(transactionID string) {
	c.cache.InvalidatePrefix("/api/v1/transaction/" + transactionID)
	c.cache.InvalidatePrefix("/api/v1/payment/transaction/" + transactionID)
}
