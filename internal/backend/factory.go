package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"

	"spendlog/internal/kv"
	"spendlog/internal/log"
	"spendlog/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.WarnContext(ctx, "Using memory backend, data is lost on exit")
		return &BackendResult{Store: kv.NewMemory()}, nil
	case FileBackend:
		return f.createFileBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case PostgresBackend:
		return f.createPostgresBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := kv.NewFile(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized file backend", "data_directory", config.DataDirectory)
	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	var store *storage.SQLiteStore
	err := f.withRetry(ctx, config, func() error {
		var err error
		store, err = storage.NewSQLiteStore(ctx, config.SQLiteDBPath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &BackendResult{Store: store, Ready: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	var store *storage.PostgresStore
	err := f.withRetry(ctx, config, func() error {
		var err error
		store, err = storage.NewPostgresStore(ctx, config.PostgresURL)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized postgres backend")
	return &BackendResult{Store: store, Ready: store, Cleanup: store.Close}, nil
}

// withRetry retries open until it succeeds, attempts run out, or ctx ends.
// Cancelling ctx also cuts a pending delay short.
func (f *DefaultFactory) withRetry(ctx context.Context, config Config, open func() error) error {
	attempts := config.OpenAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := config.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}

	return retry.Do(
		open,
		retry.RetryIf(func(error) bool {
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			f.logger.WarnContext(ctx, "Storage open failed, retrying",
				"attempt", n+1, "max_attempts", attempts, log.FieldBackend, config.Type.String(), "error", err)
		}),
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
