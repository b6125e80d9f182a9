package kv

import (
	"context"
	"fmt"

	"pocketdesk/internal/config"
	"pocketdesk/internal/database"
	"pocketdesk/pkg/logger"
)

// Open builds the configured backend and a func releasing it.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Warn(ctx, "Using in-memory storage; data is lost on exit")
		return NewMemory(), func() {}, nil
	case config.BackendRedis:
		client, err := DialRedis(ctx, cfg.RedisURL, cfg.RedisPoolSize)
		if err != nil {
			return nil, nil, err
		}
		return NewRedis(client, cfg.KVPrefix), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		db := database.DB(ctx)
		if db == nil {
			return nil, nil, fmt.Errorf("database not available")
		}
		if err := database.MigrateOrCreateSchema(ctx); err != nil {
			return nil, nil, fmt.Errorf("schema migration: %w", err)
		}
		return NewPostgres(db, cfg.KVPrefix), func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
