package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ConfigManager определяет работу с разделами бизнес-настроек
type ConfigManager interface {
	Get(ctx context.Context, section string) (*domain.BusinessConfig, error)
	Update(ctx context.Context, section string, values map[string]interface{}) (*domain.BusinessConfig, error)
	UploadLogo(ctx context.Context, filename, contentType string, data []byte) error
}

// DiscountValidator определяет серверную проверку скидок
type DiscountValidator interface {
	Validate(ctx context.Context, d domain.Discount) (*upstream.ValidationResponse, error)
}

type ConfigHandler struct {
	config    ConfigManager
	discounts DiscountValidator
	logger    *zap.Logger
}

func NewConfigHandler(config ConfigManager, discounts DiscountValidator, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{
		config:    config,
		discounts: discounts,
		logger:    logger,
	}
}

// Get возвращает раздел настроек
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Get(r.Context(), chi.URLParam(r, "section"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, cfg)
}

// Update сохраняет раздел настроек
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var values map[string]interface{}
	if err := decodeJSON(r, &values); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	cfg, err := h.config.Update(r.Context(), chi.URLParam(r, "section"), values)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, cfg)
}

// UploadLogo принимает multipart-форму с файлом логотипа.
// Размер и тип проверяются до пересылки на сервер.
func (h *ConfigHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(upstream.MaxLogoSize); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, upstream.MaxLogoSize+1))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	err = h.config.UploadLogo(r.Context(), header.Filename, contentType, data)
	if err != nil {
		if errors.Is(err, upstream.ErrLogoTooLarge) || errors.Is(err, upstream.ErrLogoNotImage) {
			writeJSON(w, h.logger, http.StatusUnprocessableEntity, ErrorResponse{
				Status:  http.StatusUnprocessableEntity,
				Message: http.StatusText(http.StatusUnprocessableEntity),
				Detail:  err.Error(),
			})
			return
		}
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// discountValidateRequest представляет тело проверки скидки
type discountValidateRequest struct {
	Discount domain.Discount `json:"discount"`
}

// ValidateDiscount проверяет скидку: форму локально, существо на сервере
func (h *ConfigHandler) ValidateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	resp, err := h.discounts.Validate(r.Context(), req.Discount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
