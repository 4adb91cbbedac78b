package sequence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo воспроизводит семантику хранилища в памяти
type fakeRepo struct {
	counters    map[domain.SequenceKind]int64
	mappings    map[domain.SequenceKind]map[string]int64
	failOn      string
	assignCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		counters: make(map[domain.SequenceKind]int64),
		mappings: make(map[domain.SequenceKind]map[string]int64),
	}
}

func (f *fakeRepo) Assign(_ context.Context, kind domain.SequenceKind, id string) (int64, error) {
	f.assignCalls++
	if f.failOn == id {
		return 0, errors.New("database error")
	}
	m, ok := f.mappings[kind]
	if !ok {
		m = make(map[string]int64)
		f.mappings[kind] = m
	}
	if n, ok := m[id]; ok {
		return n, nil
	}
	f.counters[kind]++
	m[id] = f.counters[kind]
	return f.counters[kind], nil
}

func (f *fakeRepo) Lookup(_ context.Context, kind domain.SequenceKind, id string) (int64, error) {
	if n, ok := f.mappings[kind][id]; ok {
		return n, nil
	}
	return 0, domain.ErrSequenceNotFound
}

func (f *fakeRepo) Reset(_ context.Context) error {
	f.counters = make(map[domain.SequenceKind]int64)
	f.mappings = make(map[domain.SequenceKind]map[string]int64)
	return nil
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "PW000001", Format(1, domain.PrefixTransaction))
	assert.Equal(t, "EX000042", Format(42, domain.PrefixExtension))
	assert.Equal(t, "PW123456", Format(123456, domain.PrefixTransaction))
	// Номера шире шести знаков не обрезаются
	assert.Equal(t, "PW1234567", Format(1234567, domain.PrefixTransaction))
}

func TestService_Assign(t *testing.T) {
	svc := NewService(newFakeRepo(), zap.NewNop())
	ctx := context.Background()

	t.Run("Same id returns same number", func(t *testing.T) {
		first, err := svc.Assign(ctx, domain.SequenceKindTransaction, "srv-a")
		require.NoError(t, err)

		second, err := svc.Assign(ctx, domain.SequenceKindTransaction, "srv-a")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("Different ids never share a number", func(t *testing.T) {
		seen := make(map[int64]string)
		for _, id := range []string{"srv-b", "srv-c", "srv-d", "srv-e"} {
			n, err := svc.Assign(ctx, domain.SequenceKindTransaction, id)
			require.NoError(t, err)
			prev, dup := seen[n]
			require.False(t, dup, "number %d issued to both %s and %s", n, prev, id)
			seen[n] = id
		}
	})

	t.Run("Numbers are monotonic", func(t *testing.T) {
		a, err := svc.Assign(ctx, domain.SequenceKindExtension, "ext-1")
		require.NoError(t, err)
		b, err := svc.Assign(ctx, domain.SequenceKindExtension, "ext-2")
		require.NoError(t, err)
		assert.Greater(t, b, a)
	})
}

func TestService_DisplayCode(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	t.Run("First call allocates exactly once", func(t *testing.T) {
		code, err := svc.DisplayCode(ctx, domain.SequenceKindTransaction, "srv-1")
		require.NoError(t, err)
		assert.Equal(t, "PW000001", code)

		// Повторный вызов не выделяет новый номер
		again, err := svc.DisplayCode(ctx, domain.SequenceKindTransaction, "srv-1")
		require.NoError(t, err)
		assert.Equal(t, code, again)
		assert.Equal(t, int64(1), repo.counters[domain.SequenceKindTransaction])
	})

	t.Run("Extension prefix", func(t *testing.T) {
		code, err := svc.DisplayCode(ctx, domain.SequenceKindExtension, "srv-ext-1")
		require.NoError(t, err)
		assert.Equal(t, "EX000001", code)
	})
}

func TestService_BulkInitialize(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Numbers follow creation order", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, zap.NewNop())

		// Список приходит в произвольном порядке
		txs := []*domain.Transaction{
			{ID: "third", CreatedAt: base.Add(48 * time.Hour)},
			{ID: "first", CreatedAt: base},
			{ID: "second", CreatedAt: base.Add(24 * time.Hour)},
		}

		require.NoError(t, svc.BulkInitialize(ctx, txs))

		assert.Equal(t, int64(1), repo.mappings[domain.SequenceKindTransaction]["first"])
		assert.Equal(t, int64(2), repo.mappings[domain.SequenceKindTransaction]["second"])
		assert.Equal(t, int64(3), repo.mappings[domain.SequenceKindTransaction]["third"])
	})

	t.Run("Nested extensions are numbered too", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, zap.NewNop())

		txs := []*domain.Transaction{
			{
				ID:        "tx-1",
				CreatedAt: base,
				Extensions: []domain.Extension{
					{ID: "ext-late", CreatedAt: base.Add(72 * time.Hour)},
					{ID: "ext-early", CreatedAt: base.Add(24 * time.Hour)},
				},
			},
		}

		require.NoError(t, svc.BulkInitialize(ctx, txs))

		assert.Equal(t, int64(1), repo.mappings[domain.SequenceKindExtension]["ext-early"])
		assert.Equal(t, int64(2), repo.mappings[domain.SequenceKindExtension]["ext-late"])
	})

	t.Run("Already mapped ids keep their numbers", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, zap.NewNop())

		_, err := svc.Assign(ctx, domain.SequenceKindTransaction, "existing")
		require.NoError(t, err)

		txs := []*domain.Transaction{
			{ID: "existing", CreatedAt: base.Add(time.Hour)},
			{ID: "new", CreatedAt: base},
		}
		require.NoError(t, svc.BulkInitialize(ctx, txs))

		assert.Equal(t, int64(1), repo.mappings[domain.SequenceKindTransaction]["existing"])
		assert.Equal(t, int64(2), repo.mappings[domain.SequenceKindTransaction]["new"])
	})

	t.Run("Rescan does not rewrite existing mappings", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, zap.NewNop())

		txs := []*domain.Transaction{
			{ID: "tx-1", CreatedAt: base, Extensions: []domain.Extension{
				{ID: "ext-1", CreatedAt: base.Add(time.Hour)},
			}},
			{ID: "tx-2", CreatedAt: base.Add(24 * time.Hour)},
		}

		require.NoError(t, svc.BulkInitialize(ctx, txs))
		written := repo.assignCalls

		// Сканер ходит регулярно, повторный проход только читает
		require.NoError(t, svc.BulkInitialize(ctx, txs))
		assert.Equal(t, written, repo.assignCalls)
	})

	t.Run("Repository error stops initialization", func(t *testing.T) {
		repo := newFakeRepo()
		repo.failOn = "bad"
		svc := NewService(repo, zap.NewNop())

		txs := []*domain.Transaction{{ID: "bad", CreatedAt: base}}
		assert.Error(t, svc.BulkInitialize(ctx, txs))
	})
}

func TestService_Reset(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Assign(ctx, domain.SequenceKindTransaction, "srv-1")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	// После сброса счет начинается заново с 1
	n, err := svc.Assign(ctx, domain.SequenceKindTransaction, "srv-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
