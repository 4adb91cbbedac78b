package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config содержит конфигурацию приложения
type Config struct {
	RunAddress       string        // Адрес и порт запуска сервиса
	DatabaseURI      string        // URI подключения к БД нумерации
	LedgerAPIAddress string        // Адрес авторитетного ledger API
	LedgerAPIToken   string        // Токен доступа к ledger API
	BusinessTimezone string        // Часовой пояс магазина
	CacheTTL         time.Duration // Время жизни кеша ответов ledger API
	LogLevel         string        // Уровень логирования

	// Порог подозрительно крупного платежа
	LargePaymentMultiple int64 // Кратность текущему балансу
	LargePaymentSlack    int64 // Допуск сверх баланса
	ConfirmPaymentOver   int64 // Сумма, с которой нужно подтверждение

	// Worker Pool конфигурация
	WorkerPoolSize     int           // Количество воркеров
	WorkerQueueSize    int           // Размер очереди обновлений
	WorkerScanInterval time.Duration // Интервал сканирования списка билетов

	// Тихий период коалесценции сигналов обновления
	DebounceQuietPeriod time.Duration
}

// Load загружает конфигурацию из переменных окружения и флагов
// Приоритет: env переменные > флаги > дефолтные значения
func Load() (*Config, error) {
	cfg := &Config{
		BusinessTimezone:     "America/New_York",
		CacheTTL:             30 * time.Second,
		LogLevel:             "info",
		LargePaymentMultiple: 5,
		LargePaymentSlack:    1000,
		ConfirmPaymentOver:   500,
		WorkerPoolSize:       3,
		WorkerQueueSize:      100,
		WorkerScanInterval:   30 * time.Second,
		DebounceQuietPeriod:  500 * time.Millisecond,
	}

	// Определяем флаги
	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.LedgerAPIAddress, "r", "", "ledger API address")
	flag.Parse()

	// Переменные окружения имеют приоритет над флагами
	if envRunAddr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = envRunAddr
	}

	if envDBURI, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = envDBURI
	}

	if envLedgerAddr, ok := os.LookupEnv("LEDGER_API_ADDRESS"); ok {
		cfg.LedgerAPIAddress = envLedgerAddr
	}

	// Токен доступа (только из env, не из флагов для безопасности)
	cfg.LedgerAPIToken = os.Getenv("LEDGER_API_TOKEN")

	if envTZ, ok := os.LookupEnv("BUSINESS_TIMEZONE"); ok {
		cfg.BusinessTimezone = envTZ
	}

	if envLogLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	if envCacheTTL, ok := os.LookupEnv("CACHE_TTL"); ok {
		if ttl, err := time.ParseDuration(envCacheTTL); err == nil && ttl > 0 {
			cfg.CacheTTL = ttl
		}
	}

	// Порог крупного платежа из env
	if v, ok := os.LookupEnv("LARGE_PAYMENT_MULTIPLE"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.LargePaymentMultiple = n
		}
	}

	if v, ok := os.LookupEnv("LARGE_PAYMENT_SLACK"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.LargePaymentSlack = n
		}
	}

	if v, ok := os.LookupEnv("CONFIRM_PAYMENT_OVER"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.ConfirmPaymentOver = n
		}
	}

	// Worker Pool конфигурация из env
	if envWorkerPoolSize, ok := os.LookupEnv("WORKER_POOL_SIZE"); ok {
		if size, err := strconv.Atoi(envWorkerPoolSize); err == nil && size > 0 {
			cfg.WorkerPoolSize = size
		}
	}

	if envWorkerQueueSize, ok := os.LookupEnv("WORKER_QUEUE_SIZE"); ok {
		if size, err := strconv.Atoi(envWorkerQueueSize); err == nil && size > 0 {
			cfg.WorkerQueueSize = size
		}
	}

	if envScanInterval, ok := os.LookupEnv("WORKER_SCAN_INTERVAL"); ok {
		if interval, err := time.ParseDuration(envScanInterval); err == nil && interval > 0 {
			cfg.WorkerScanInterval = interval
		}
	}

	if envQuiet, ok := os.LookupEnv("DEBOUNCE_QUIET_PERIOD"); ok {
		if quiet, err := time.ParseDuration(envQuiet); err == nil && quiet > 0 {
			cfg.DebounceQuietPeriod = quiet
		}
	}

	// Валидация обязательных параметров
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI is required (use -d flag or DATABASE_URI env)")
	}

	if cfg.LedgerAPIAddress == "" {
		return nil, fmt.Errorf("ledger API address is required (use -r flag or LEDGER_API_ADDRESS env)")
	}

	return cfg, nil
}

// GuardMultiple возвращает кратность баланса как decimal
func (c *Config) GuardMultiple() decimal.Decimal {
	return decimal.NewFromInt(c.LargePaymentMultiple)
}

// GuardSlack возвращает допуск сверх баланса как decimal
func (c *Config) GuardSlack() decimal.Decimal {
	return decimal.NewFromInt(c.LargePaymentSlack)
}

// GuardConfirmOver возвращает порог подтверждения как decimal
func (c *Config) GuardConfirmOver() decimal.Decimal {
	return decimal.NewFromInt(c.ConfirmPaymentOver)
}
