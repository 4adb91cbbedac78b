package worker

import (
	"context"
	"sync"
	"time"

	"github.com/avc/pawnshop-admin/internal/domain"
	"github.com/avc/pawnshop-admin/internal/utils/debounce"
	"go.uber.org/zap"
)

// LedgerReader определяет, что пулу нужно от ledger API для
// фонового обновления состояния билетов
type LedgerReader interface {
	GetBalance(ctx context.Context, transactionID string) (*domain.Balance, error)
	PaymentHistory(ctx context.Context, transactionID string) ([]*domain.PaymentRecord, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
}

// Numberer определяет фоновую инициализацию отображаемой нумерации
type Numberer interface {
	BulkInitialize(ctx context.Context, transactions []*domain.Transaction) error
}

// Pool представляет пул воркеров фонового обновления.
// Сигналы по одному билету коалесцируются тихим периодом, чтобы серия
// быстрых мутаций не устраивала шторм перечитываний.
type Pool struct {
	workers      int
	queue        chan string
	ledger       LedgerReader
	numberer     Numberer
	logger       *zap.Logger
	wg           sync.WaitGroup
	scanInterval time.Duration
	quietPeriod  time.Duration

	mu         sync.Mutex
	debouncers map[string]*debounce.Debouncer
	stopped    bool
}

// NewPool создает новый worker pool
func NewPool(
	workers int,
	queueSize int,
	scanInterval time.Duration,
	quietPeriod time.Duration,
	ledger LedgerReader,
	numberer Numberer,
	logger *zap.Logger,
) *Pool {
	if scanInterval <= 0 {
		scanInterval = 30 * time.Second
	}
	return &Pool{
		workers:      workers,
		queue:        make(chan string, queueSize),
		ledger:       ledger,
		numberer:     numberer,
		logger:       logger,
		scanInterval: scanInterval,
		quietPeriod:  quietPeriod,
		debouncers:   make(map[string]*debounce.Debouncer),
	}
}

// Start запускает worker pool
func (p *Pool) Start(ctx context.Context) {
	// Запускаем воркеры
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	// Запускаем сканер полного списка билетов
	p.wg.Add(1)
	go p.scanner(ctx)
}

// Stop останавливает worker pool. Ожидающие тихие периоды отменяются,
// уже поставленные в очередь билеты дорабатываются.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	for _, d := range p.debouncers {
		d.Cancel()
	}
	p.mu.Unlock()

	close(p.queue)
	p.wg.Wait()
}

// NotifyTransaction сигнализирует, что состояние билета изменилось.
// Перечитывание откладывается до паузы в сигналах по этому билету.
func (p *Pool) NotifyTransaction(transactionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	d, ok := p.debouncers[transactionID]
	if !ok {
		d = debounce.New(p.quietPeriod, func() {
			p.forget(transactionID)
			p.enqueue(transactionID)
		})
		p.debouncers[transactionID] = d
	}
	d.Trigger()
}

// forget убирает отработавший debouncer, иначе карта растет
// по записи на каждый когда-либо измененный билет
func (p *Pool) forget(transactionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.debouncers, transactionID)
}

// enqueue ставит билет в очередь на перечитывание
func (p *Pool) enqueue(transactionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	select {
	case p.queue <- transactionID:
		// Успешно добавлено в очередь
	default:
		// Очередь заполнена, пропускаем
		p.logger.Warn("refresh queue is full, skipping transaction",
			zap.String("transaction_id", transactionID))
	}
}

// worker обрабатывает билеты из очереди
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker stopping", zap.Int("worker_id", id))
			return
		case transactionID, ok := <-p.queue:
			if !ok {
				return
			}
			p.refreshTransaction(ctx, transactionID)
		}
	}
}

// scanner периодически перечитывает полный список билетов
func (p *Pool) scanner(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("scanner stopping")
			return
		case <-ticker.C:
			p.scanTransactions(ctx)
		}
	}
}

// scanTransactions подтягивает список билетов и инициализирует
// отображаемую нумерацию для новых
func (p *Pool) scanTransactions(ctx context.Context) {
	txs, err := p.ledger.ListTransactions(ctx)
	if err != nil {
		p.logger.Error("failed to list transactions", zap.Error(err))
		return
	}

	if err := p.numberer.BulkInitialize(ctx, txs); err != nil {
		p.logger.Error("failed to initialize display sequences", zap.Error(err))
	}
}

// refreshTransaction перечитывает баланс по билету и прогревает
// кеш истории платежей после мутации. Баланс клиент не кеширует,
// здесь чтение служит ранним сигналом о проблемах с сервером.
func (p *Pool) refreshTransaction(ctx context.Context, transactionID string) {
	p.logger.Debug("refreshing transaction", zap.String("transaction_id", transactionID))

	if _, err := p.ledger.GetBalance(ctx, transactionID); err != nil {
		p.logger.Error("failed to refresh balance",
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
		return
	}

	if _, err := p.ledger.PaymentHistory(ctx, transactionID); err != nil {
		p.logger.Error("failed to refresh payment history",
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
	}
}
