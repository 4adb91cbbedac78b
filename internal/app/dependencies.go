package app

import (
	"fmt"

	"github.com/avc/pawnshop-admin/internal/allocation"
	"github.com/avc/pawnshop-admin/internal/config"
	"github.com/avc/pawnshop-admin/internal/format"
	"github.com/avc/pawnshop-admin/internal/handlers"
	"github.com/avc/pawnshop-admin/internal/repository/postgres"
	"github.com/avc/pawnshop-admin/internal/sequence"
	"github.com/avc/pawnshop-admin/internal/service"
	"github.com/avc/pawnshop-admin/internal/upstream"
	"github.com/avc/pawnshop-admin/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// services содержит все сервисы приложения
type services struct {
	payments     *service.PaymentService
	extensions   *service.ExtensionService
	discounts    *service.DiscountService
	transactions *service.TransactionService
	customers    *service.CustomerService
	config       *service.ConfigService
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	payments     *handlers.PaymentHandler
	extensions   *handlers.ExtensionHandler
	transactions *handlers.TransactionHandler
	customers    *handlers.CustomerHandler
	config       *handlers.ConfigHandler
	health       *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	ledger     *upstream.Client
	services   *services
	handlers   *handlerSet
	workerPool *worker.Pool
}

// initDependencies создает все зависимости приложения
func initDependencies(cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) (*dependencies, error) {
	// Клиент авторитетного ledger API
	ledger := upstream.NewClient(upstream.ClientConfig{
		BaseURL:  cfg.LedgerAPIAddress,
		Token:    cfg.LedgerAPIToken,
		Timezone: cfg.BusinessTimezone,
		CacheTTL: cfg.CacheTTL,
	}, logger)

	// Форматирование в поясе магазина
	formatter, err := format.NewFormatter(cfg.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to init formatter: %w", err)
	}

	// Хранилище отображаемой нумерации
	sequenceRepo := postgres.NewSequenceRepository(dbPool)
	sequences := sequence.NewService(sequenceRepo, logger)

	// Фоновые обновления: пул реализует RefreshNotifier
	workerPool := worker.NewPool(
		cfg.WorkerPoolSize,
		cfg.WorkerQueueSize,
		cfg.WorkerScanInterval,
		cfg.DebounceQuietPeriod,
		ledger,
		sequences,
		logger,
	)

	guard := allocation.Guard{
		Multiple:    cfg.GuardMultiple(),
		Slack:       cfg.GuardSlack(),
		ConfirmOver: cfg.GuardConfirmOver(),
	}

	// Создание сервисов
	svcs := &services{
		payments:     service.NewPaymentService(ledger, guard, service.NewNoopOptimistic(), workerPool, logger),
		extensions:   service.NewExtensionService(ledger, service.NewNoopOptimistic(), workerPool, logger),
		discounts:    service.NewDiscountService(ledger, logger),
		transactions: service.NewTransactionService(ledger, sequences, formatter, logger),
		customers:    service.NewCustomerService(ledger, logger),
		config:       service.NewConfigService(ledger, logger),
	}

	// Создание handlers
	hdlrs := &handlerSet{
		payments:     handlers.NewPaymentHandler(svcs.payments, logger),
		extensions:   handlers.NewExtensionHandler(svcs.extensions, logger),
		transactions: handlers.NewTransactionHandler(svcs.transactions, logger),
		customers:    handlers.NewCustomerHandler(svcs.customers, logger),
		config:       handlers.NewConfigHandler(svcs.config, svcs.discounts, logger),
		health:       handlers.NewHealthHandler(dbPool, logger),
	}

	return &dependencies{
		ledger:     ledger,
		services:   svcs,
		handlers:   hdlrs,
		workerPool: workerPool,
	}, nil
}
