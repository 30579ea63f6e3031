package backend

import (
	"context"
	"fmt"
	"time"

	"finsafe/internal/log"
	"finsafe/internal/session"
	"finsafe/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		return f.createMemoryBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case RedisBackend:
		return f.createRedisBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store := session.NewMemoryStore(config.MaxEntries, config.TTL)

	f.logger.Info("Initialized memory session backend", "max_entries", config.MaxEntries)

	return &BackendResult{
		Store:   store,
		Cleaner: store.Cache(),
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	store := session.NewSQLiteStore(repo)

	f.logger.Info("Initialized SQLite session backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   store,
		Cleaner: purger{store: store, logger: f.logger},
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := session.NewRedisStore(ctx, session.RedisConfig{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis session store: %w", err)
	}

	f.logger.Info("Initialized Redis session backend", "addr", config.RedisAddr, "db", config.RedisDB)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

// purger adapts the SQLite store to the cache cleanup loop.
type purger struct {
	store  *session.SQLiteStore
	logger *log.Logger
}

func (p purger) CleanExpired() int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := p.store.Purge(ctx)
	if err != nil {
		p.logger.Warn("Failed to purge expired sessions", log.FieldError, err.Error())
		return 0
	}
	return int(n)
}
