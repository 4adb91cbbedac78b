package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avc/pawnshop-admin/internal/allocation"
	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

type mockPaymentLedger struct {
	mock.Mock
}

func (m *mockPaymentLedger) GetBalance(ctx context.Context, transactionID string) (*domain.Balance, error) {
	args := m.Called(ctx, transactionID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Balance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentLedger) SubmitPayment(ctx context.Context, req upstream.PaymentRequest) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*domain.PaymentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentLedger) ValidatePayment(ctx context.Context, req upstream.PaymentRequest) (*upstream.ValidationResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*upstream.ValidationResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentLedger) VoidPayment(ctx context.Context, paymentID, adminPIN string) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, paymentID, adminPIN)
	if v := args.Get(0); v != nil {
		return v.(*domain.PaymentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentLedger) PaymentHistory(ctx context.Context, transactionID string) ([]*domain.PaymentRecord, error) {
	args := m.Called(ctx, transactionID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.PaymentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentLedger) SetOverdueFee(ctx context.Context, transactionID string, amount decimal.Decimal) error {
	args := m.Called(ctx, transactionID, amount)
	return args.Error(0)
}

// recordingRefresh запоминает, по каким билетам посылался сигнал
type recordingRefresh struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingRefresh) NotifyTransaction(transactionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, transactionID)
}

func (r *recordingRefresh) notified() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

// stubOptimistic реализует настраиваемую оптимистичную стратегию
type stubOptimistic struct {
	record  *domain.PaymentRecord
	handled bool
	err     error
	calls   int
}

func (s *stubOptimistic) TryPayment(context.Context, upstream.PaymentRequest) (*domain.PaymentRecord, bool, error) {
	s.calls++
	return s.record, s.handled, s.err
}

func (s *stubOptimistic) TryExtension(context.Context, upstream.ExtensionRequest) (*domain.Extension, bool, error) {
	return nil, false, nil
}

func balance500() *domain.Balance {
	return &domain.Balance{
		TransactionID:    "srv-1",
		CurrentBalance:   d(500),
		PrincipalBalance: d(450),
		InterestDue:      d(50),
		AsOf:             time.Now().UTC(),
	}
}

func newPaymentService(ledger PaymentLedger, opt OptimisticUpdater, refresh RefreshNotifier) *PaymentService {
	return NewPaymentService(ledger, allocation.DefaultGuard(), opt, refresh, zap.NewNop())
}

func TestPaymentService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial payment", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})
		preview, err := svc.Preview(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(100)})
		require.NoError(t, err)

		assert.False(t, preview.Breakdown.IsFullPayment)
		assert.True(t, preview.Breakdown.Allocation.Interest.Equal(d(50)))
		assert.True(t, preview.Breakdown.Allocation.Principal.Equal(d(50)))
		assert.True(t, preview.Breakdown.RemainingBalance.Equal(d(400)))
		assert.False(t, preview.Guard.NeedsConfirmation)

		ledger.AssertExpectations(t)
	})

	t.Run("Full redemption flags confirmation", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})
		preview, err := svc.Preview(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(500)})
		require.NoError(t, err)

		assert.True(t, preview.Breakdown.IsFullPayment)
		assert.True(t, preview.Guard.NeedsConfirmation)

		ledger.AssertExpectations(t)
	})

	t.Run("Zero balance disables payments", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(&domain.Balance{
			TransactionID:  "srv-1",
			CurrentBalance: decimal.Zero,
		}, nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})
		_, err := svc.Preview(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(10)})
		assert.ErrorIs(t, err, domain.ErrNothingDue)
	})

	t.Run("Balance load failure", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(nil, errors.New("network")).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})
		_, err := svc.Preview(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(10)})
		assert.Error(t, err)
	})
}

func TestPaymentService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success triggers refresh signal", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		refresh := &recordingRefresh{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()
		ledger.On("SubmitPayment", mock.Anything, mock.MatchedBy(func(req upstream.PaymentRequest) bool {
			return req.TransactionID == "srv-1" && req.Amount.Equal(d(100)) && req.IdempotencyKey != ""
		})).Return(&domain.PaymentRecord{ID: "pay-1", TransactionID: "srv-1"}, nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), refresh)
		record, err := svc.Submit(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(100)})
		require.NoError(t, err)

		assert.Equal(t, "pay-1", record.ID)
		assert.Equal(t, []string{"srv-1"}, refresh.notified())
		ledger.AssertExpectations(t)
	})

	t.Run("Unconfirmed full redemption is blocked", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		refresh := &recordingRefresh{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), refresh)
		_, err := svc.Submit(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(500)})

		assert.ErrorIs(t, err, domain.ErrNeedsConfirmation)
		assert.Empty(t, refresh.notified())
		ledger.AssertNotCalled(t, "SubmitPayment", mock.Anything, mock.Anything)
	})

	t.Run("Confirmed full redemption goes through", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()
		ledger.On("SubmitPayment", mock.Anything, mock.Anything).
			Return(&domain.PaymentRecord{ID: "pay-2", TransactionID: "srv-1"}, nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})
		_, err := svc.Submit(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(500), Confirmed: true})
		require.NoError(t, err)
	})

	t.Run("Unusually large amount is blocked even with big balance", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()

		// limit = max(5*500, 500+1000) = 2500
		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})
		_, err := svc.Submit(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(2501)})

		assert.ErrorIs(t, err, domain.ErrUnusuallyLarge)
	})

	t.Run("Bad discount shape is rejected locally", func(t *testing.T) {
		svc := newPaymentService(&mockPaymentLedger{}, NewNoopOptimistic(), &recordingRefresh{})

		_, err := svc.Submit(ctx, PaymentDraft{
			TransactionID: "srv-1",
			Amount:        d(100),
			Discount:      &domain.Discount{Amount: d(10), Reason: "", PIN: "1234"},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDiscount)

		_, err = svc.Submit(ctx, PaymentDraft{
			TransactionID: "srv-1",
			Amount:        d(100),
			Discount:      &domain.Discount{Amount: d(10), Reason: "ok", PIN: "12"},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPIN)
	})

	t.Run("Ledger failure leaves state untouched", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		refresh := &recordingRefresh{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()
		ledger.On("SubmitPayment", mock.Anything, mock.Anything).
			Return(nil, errors.New("server error")).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), refresh)
		_, err := svc.Submit(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(100)})

		assert.Error(t, err)
		assert.Empty(t, refresh.notified())
	})

	t.Run("Optimistic path handles the submission", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()

		opt := &stubOptimistic{
			record:  &domain.PaymentRecord{ID: "pay-opt", TransactionID: "srv-1"},
			handled: true,
		}

		svc := newPaymentService(ledger, opt, &recordingRefresh{})
		record, err := svc.Submit(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(100)})
		require.NoError(t, err)

		assert.Equal(t, "pay-opt", record.ID)
		assert.Equal(t, 1, opt.calls)
		ledger.AssertNotCalled(t, "SubmitPayment", mock.Anything, mock.Anything)
	})

	t.Run("Optimistic failure falls back silently", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("GetBalance", mock.Anything, "srv-1").Return(balance500(), nil).Once()
		ledger.On("SubmitPayment", mock.Anything, mock.Anything).
			Return(&domain.PaymentRecord{ID: "pay-direct", TransactionID: "srv-1"}, nil).Once()

		opt := &stubOptimistic{handled: true, err: errors.New("optimistic hook broken")}

		svc := newPaymentService(ledger, opt, &recordingRefresh{})
		record, err := svc.Submit(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(100)})
		require.NoError(t, err)

		assert.Equal(t, "pay-direct", record.ID)
		ledger.AssertExpectations(t)
	})
}

func TestPaymentService_Void(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		refresh := &recordingRefresh{}
		ledger.On("VoidPayment", mock.Anything, "pay-1", "1234").
			Return(&domain.PaymentRecord{ID: "pay-1", TransactionID: "srv-1", IsVoided: true}, nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), refresh)
		record, err := svc.Void(ctx, "pay-1", "1234")
		require.NoError(t, err)

		assert.True(t, record.IsVoided)
		assert.Equal(t, []string{"srv-1"}, refresh.notified())
	})

	t.Run("Malformed PIN rejected before the call", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})

		_, err := svc.Void(ctx, "pay-1", "12x4")
		assert.ErrorIs(t, err, domain.ErrInvalidPIN)
		ledger.AssertNotCalled(t, "VoidPayment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentService_SetOverdueFee(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		refresh := &recordingRefresh{}
		ledger.On("SetOverdueFee", mock.Anything, "srv-1", d(25)).Return(nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), refresh)
		require.NoError(t, svc.SetOverdueFee(ctx, "srv-1", d(25)))
		assert.Equal(t, []string{"srv-1"}, refresh.notified())
	})

	t.Run("Negative fee rejected", func(t *testing.T) {
		svc := newPaymentService(&mockPaymentLedger{}, NewNoopOptimistic(), &recordingRefresh{})
		err := svc.SetOverdueFee(ctx, "srv-1", d(-1))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestPaymentService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("Delegates to the server", func(t *testing.T) {
		ledger := &mockPaymentLedger{}
		ledger.On("ValidatePayment", mock.Anything, mock.Anything).
			Return(&upstream.ValidationResponse{Valid: true}, nil).Once()

		svc := newPaymentService(ledger, NewNoopOptimistic(), &recordingRefresh{})
		resp, err := svc.Validate(ctx, PaymentDraft{TransactionID: "srv-1", Amount: d(100)})
		require.NoError(t, err)
		assert.True(t, resp.Valid)
	})

	t.Run("Non-positive amount rejected locally", func(t *testing.T) {
		svc := newPaymentService(&mockPaymentLedger{}, NewNoopOptimistic(), &recordingRefresh{})
		_, err := svc.Validate(ctx, PaymentDraft{TransactionID: "srv-1", Amount: decimal.Zero})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}
