package service

import (
	"context"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
)

// OptimisticUpdater определяет явно внедряемую стратегию оптимистичной отправки.
// Вызывающий может передать реализацию, которая применяет мутацию
// локально до ответа сервера; handled=false означает "не обработано,
// выполняйте прямой вызов". Ошибка оптимистичного пути не показывается
// оператору: сервис молча откатывается на прямой вызов ledger API.
type OptimisticUpdater interface {
	TryPayment(ctx context.Context, req upstream.PaymentRequest) (record *domain.PaymentRecord, handled bool, err error)
	TryExtension(ctx context.Context, req upstream.ExtensionRequest) (ext *domain.Extension, handled bool, err error)
}

// noopOptimistic реализует стратегию по умолчанию: ничего не обрабатывает,
// каждая мутация идет прямым вызовом
type noopOptimistic struct{}

// NewNoopOptimistic возвращает стратегию по умолчанию
func NewNoopOptimistic() OptimisticUpdater {
	return noopOptimistic{}
}

func (noopOptimistic) TryPayment(context.Context, upstream.PaymentRequest) (*domain.PaymentRecord, bool, error) {
	return nil, false, nil
}

func (noopOptimistic) TryExtension(context.Context, upstream.ExtensionRequest) (*domain.Extension, bool, error) {
	return nil, false, nil
}
