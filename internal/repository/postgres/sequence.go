package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ErrUnknownKind означает, что для типа сущности нет строки счетчика.
// Счетчики сеются миграцией, так что это ошибка конфигурации.
var ErrUnknownKind = errors.New("unknown sequence kind")

// SequenceRepository хранит отображаемую нумерацию в Postgres.
// Номера выдаются внутри одной транзакции под advisory lock,
// поэтому гонки между параллельными запросами исключены.
type SequenceRepository struct {
	db DBTX
}

// NewSequenceRepository создает новый SequenceRepository
func NewSequenceRepository(db DBTX) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Assign идемпотентно выдает порядковый номер для идентификатора.
// Повторный вызов с тем же id возвращает ранее выданный номер,
// счетчик монотонный, номера не переиспользуются.
func (r *SequenceRepository) Assign(ctx context.Context, kind domain.SequenceKind, id string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin sequence transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	// Advisory lock на тип сущности сериализует выдачу номеров
	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, string(kind))
	if err != nil {
		return 0, fmt.Errorf("repository: failed to acquire sequence lock for %s: %w", kind, err)
	}

	// Уже выданный номер возвращаем как есть
	var seqNo int64
	err = tx.QueryRow(ctx,
		`SELECT seq_no FROM display_sequences WHERE kind = $1 AND entity_id = $2`,
		string(kind), id,
	).Scan(&seqNo)

	if err == nil {
		return seqNo, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("repository: failed to look up sequence for %s %q: %w", kind, id, err)
	}

	// Новый идентификатор: инкрементируем счетчик и сохраняем соответствие
	err = tx.QueryRow(ctx,
		`UPDATE sequence_counters SET last_no = last_no + 1 WHERE kind = $1 RETURNING last_no`,
		string(kind),
	).Scan(&seqNo)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUnknownKind
		}
		return 0, fmt.Errorf("repository: failed to increment counter for %s: %w", kind, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO display_sequences (kind, entity_id, seq_no) VALUES ($1, $2, $3)`,
		string(kind), id, seqNo,
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to store sequence for %s %q: %w", kind, id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit sequence assignment: %w", err)
	}

	return seqNo, nil
}

// Lookup возвращает ранее выданный номер без выделения нового
func (r *SequenceRepository) Lookup(ctx context.Context, kind domain.SequenceKind, id string) (int64, error) {
	var seqNo int64
	err := r.db.QueryRow(ctx,
		`SELECT seq_no FROM display_sequences WHERE kind = $1 AND entity_id = $2`,
		string(kind), id,
	).Scan(&seqNo)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrSequenceNotFound
		}
		return 0, fmt.Errorf("repository: failed to look up sequence for %s %q: %w", kind, id, err)
	}

	return seqNo, nil
}

// Reset удаляет все соответствия и сбрасывает счетчики.
// Явное административное действие, автоматически не вызывается.
func (r *SequenceRepository) Reset(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin reset transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM display_sequences`); err != nil {
		return fmt.Errorf("repository: failed to clear sequences: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE sequence_counters SET last_no = 0`); err != nil {
		return fmt.Errorf("repository: failed to reset counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit reset: %w", err)
	}

	return nil
}
