package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/avc/pawnshop-admin/internal/domain"
)

// MaxLogoSize ограничивает размер логотипа до отправки на сервер
const MaxLogoSize = 5 << 20 // 5 MB

// Ошибки загрузки логотипа
var (
	ErrLogoTooLarge = fmt.Errorf("logo file exceeds %d bytes", MaxLogoSize)
	ErrLogoNotImage = fmt.Errorf("logo must be an image file")
)

// GetBusinessConfig возвращает раздел бизнес-настроек с полями аудита
func (c *Client) GetBusinessConfig(ctx context.Context, section domain.ConfigSection) (*domain.BusinessConfig, error) {
	var cfg domain.BusinessConfig
	path := fmt.Sprintf("/api/v1/business-config/%s", section)
	if err := c.getCached(ctx, path, &cfg); err != nil {
		return nil, err
	}
	cfg.Section = section
	return &cfg, nil
}

// UpdateBusinessConfig сохраняет раздел настроек и возвращает его
// с обновленными updated_at/updated_by
func (c *Client) UpdateBusinessConfig(ctx context.Context, section domain.ConfigSection, values map[string]interface{}) (*domain.BusinessConfig, error) {
	var cfg domain.BusinessConfig
	path := fmt.Sprintf("/api/v1/business-config/%s", section)
	if err := c.do(ctx, http.MethodPost, path, values, &cfg); err != nil {
		return nil, err
	}

	cfg.Section = section
	c.cache.InvalidatePrefix(path)
	return &cfg, nil
}

// UploadLogo отправляет логотип компании multipart-запросом.
// Размер и тип файла проверяются до отправки, чтобы не гонять
// заведомо негодный файл по сети.
func (c *Client) UploadLogo(ctx context.Context, filename, contentType string, data []byte) error {
	if len(data) > MaxLogoSize {
		return ErrLogoTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrLogoNotImage
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("logo", filename)
	if err != nil {
		return fmt.Errorf("ledger client: failed to create multipart form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("ledger client: failed to write logo data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("ledger client: failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/business-config/company/upload-logo", &buf)
	if err != nil {
		return fmt.Errorf("ledger client: failed to create request: %w", err)
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return c.normalizeError(resp.StatusCode, body)
	}

	c.cache.InvalidatePrefix("/api/v1/business-config/company")
	return nil
}
