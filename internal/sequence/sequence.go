// Package sequence выдает короткие человекочитаемые коды для
// opaque-идентификаторов, приходящих от ledger API. Коды нужны
// оператору для поиска и печати, сервер о них не знает: потеря
// соответствий меняет только отображение, но не данные.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/avc/pawnshop-admin/internal/domain"
	"go.uber.org/zap"
)

// padWidth задает ширину числовой части кода: PW000001
const padWidth = 6

// Repository определяет хранилище соответствий id -> номер
type Repository interface {
	Assign(ctx context.Context, kind domain.SequenceKind, id string) (int64, error)
	Lookup(ctx context.Context, kind domain.SequenceKind, id string) (int64, error)
	Reset(ctx context.Context) error
}

// Service выдает и форматирует отображаемые коды
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService создает новый Service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Format дополняет номер нулями до шести знаков и добавляет префикс
func Format(n int64, prefix string) string {
	return fmt.Sprintf("%s%0*d", prefix, padWidth, n)
}

// Prefix возвращает двухбуквенный префикс для типа сущности
func Prefix(kind domain.SequenceKind) string {
	if kind == domain.SequenceKindExtension {
		return domain.PrefixExtension
	}
	return domain.PrefixTransaction
}

// Assign идемпотентно выдает порядковый номер для идентификатора
func (s *Service) Assign(ctx context.Context, kind domain.SequenceKind, id string) (int64, error) {
	n, err := s.repo.Assign(ctx, kind, id)
	if err != nil {
		return 0, fmt.Errorf("sequence service: failed to assign %s %q: %w", kind, id, err)
	}
	return n, nil
}

// DisplayCode возвращает отображаемый код, при первом обращении
// выделяя ровно один новый номер
func (s *Service) DisplayCode(ctx context.Context, kind domain.SequenceKind, id string) (string, error) {
	n, err := s.Assign(ctx, kind, id)
	if err != nil {
		return "", err
	}
	return Format(n, Prefix(kind)), nil
}

// assignIfMissing выделяет номер, только если id еще не пронумерован.
// Сканер ходит по полному списку регулярно, и дешевле проверить
// существующее соответствие, чем каждый раз писать в хранилище.
func (s *Service) assignIfMissing(ctx context.Context, kind domain.SequenceKind, id string) error {
	_, err := s.repo.Lookup(ctx, kind, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrSequenceNotFound) {
		return fmt.Errorf("sequence service: failed to look up %s %q: %w", kind, id, err)
	}

	_, err = s.Assign(ctx, kind, id)
	return err
}

// BulkInitialize присваивает номера всем еще не пронумерованным билетам
// и их продлениям в порядке создания, чтобы нумерация при первой загрузке
// полного списка приближалась к хронологической.
func (s *Service) BulkInitialize(ctx context.Context, transactions []*domain.Transaction) error {
	sorted := make([]*domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	for _, tx := range sorted {
		if err := s.assignIfMissing(ctx, domain.SequenceKindTransaction, tx.ID); err != nil {
			return err
		}

		exts := make([]domain.Extension, len(tx.Extensions))
		copy(exts, tx.Extensions)
		sort.SliceStable(exts, func(i, j int) bool {
			return exts[i].CreatedAt.Before(exts[j].CreatedAt)
		})

		for _, ext := range exts {
			if err := s.assignIfMissing(ctx, domain.SequenceKindExtension, ext.ID); err != nil {
				return err
			}
		}
	}

	s.logger.Debug("bulk sequence initialization completed",
		zap.Int("transactions", len(sorted)))

	return nil
}

// Reset удаляет всю нумерацию и начинает счет заново с 1.
// Явное административное действие.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("sequence service: failed to reset: %w", err)
	}
	s.logger.Info("display sequence numbering reset")
	return nil
}
