package backend

import (
	"context"
	"errors"
	"fmt"

	"runclub/internal/amqp"
	"runclub/internal/cache"
	applog "runclub/internal/log"
	"runclub/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentStore)}
}

// CreateBackend opens the configured store, wraps it in the read cache and
// connects the optional run-logged publisher.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		cleanups []CleanupFunc
		result   = &BackendResult{}
	)

	switch config.Type {
	case SQLiteBackend:
		db, err := storage.NewSQLite(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		result.Store = db
		result.Ready = db.Ping
		cleanups = append(cleanups, db.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		result.Store = storage.NewMemory()
		f.logger.InfoContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	if config.CacheSize > 0 {
		lru := cache.NewLRUCache[string](config.CacheSize, config.CacheTTL)
		manager := cache.NewManager(f.logger)
		manager.Register(lru)
		manager.StartCleanup(config.CacheTTL)
		result.Store = storage.NewCached(result.Store, lru)
		cleanups = append(cleanups, func() error {
			manager.Stop()
			st := lru.Stats()
			f.logger.Debug("Store read cache closed",
				"hits", st.Hits, "misses", st.Misses,
				"evictions", st.Evictions, "expirations", st.Expirations)
			return nil
		})
		f.logger.DebugContext(ctx, "Enabled store read cache", "size", config.CacheSize, "ttl", config.CacheTTL)
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without run events", applog.FieldError, err)
		} else {
			result.Notifier = client
			cleanups = append(cleanups, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result.Cleanup = func() error {
		var errs []error
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}
