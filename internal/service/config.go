package service

import (
	"context"
	"fmt"

	"github.com/avc/pawnshop-admin/internal/domain"
	"go.uber.org/zap"
)

// ConfigLedger определяет доступ к бизнес-настройкам на сервере
type ConfigLedger interface {
	GetBusinessConfig(ctx context.Context, section domain.ConfigSection) (*domain.BusinessConfig, error)
	UpdateBusinessConfig(ctx context.Context, section domain.ConfigSection, values map[string]interface{}) (*domain.BusinessConfig, error)
	UploadLogo(ctx context.Context, filename, contentType string, data []byte) error
}

// ConfigService предоставляет экраны бизнес-настроек
type ConfigService struct {
	ledger ConfigLedger
	logger *zap.Logger
}

// NewConfigService создает новый ConfigService
func NewConfigService(ledger ConfigLedger, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		ledger: ledger,
		logger: logger,
	}
}

// Get возвращает раздел настроек с полями аудита
func (s *ConfigService) Get(ctx context.Context, section string) (*domain.BusinessConfig, error) {
	if !domain.ValidSection(section) {
		return nil, domain.ErrUnknownSection
	}

	cfg, err := s.ledger.GetBusinessConfig(ctx, domain.ConfigSection(section))
	if err != nil {
		return nil, fmt.Errorf("config service: failed to load section %s: %w", section, err)
	}
	return cfg, nil
}

// Update сохраняет раздел настроек
func (s *ConfigService) Update(ctx context.Context, section string, values map[string]interface{}) (*domain.BusinessConfig, error) {
	if !domain.ValidSection(section) {
		return nil, domain.ErrUnknownSection
	}

	cfg, err := s.ledger.UpdateBusinessConfig(ctx, domain.ConfigSection(section), values)
	if err != nil {
		return nil, fmt.Errorf("config service: failed to update section %s: %w", section, err)
	}

	s.logger.Info("business config updated",
		zap.String("section", section),
		zap.String("updated_by", cfg.UpdatedBy),
	)

	return cfg, nil
}

// UploadLogo отправляет логотип компании; размер и тип проверяются
// до отправки на сервер
func (s *ConfigService) UploadLogo(ctx context.Context, filename, contentType string, data []byte) error {
	return s.ledger.UploadLogo(ctx, filename, contentType, data)
}
