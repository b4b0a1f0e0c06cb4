package backend

import (
	"context"
	"fmt"
	"log/slog"

	"finanzplan/internal/kv"
	"finanzplan/internal/kv/memory"
	"finanzplan/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		result.Store = kv.NewCachedStore(result.Store, config.CacheSize, config.CacheTTL, f.logger)
		f.logger.DebugContext(ctx, "Enabled store cache",
			"size", config.CacheSize, "ttl", config.CacheTTL)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.DebugContext(ctx, "Initialized memory backend",
		"data_directory", dataDir, "seeded_keys", store.Len())

	return &BackendResult{
		Store:   store,
		Cleanup: nil, // nothing to release
	}, nil
}
