package database

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq"
	"pocketdesk/internal/config"
	"pocketdesk/pkg/logger"
)

var (
	pool *sql.DB
	once sync.Once
)

// DB returns the global database connection pool (initialized on first use).
func DB(ctx context.Context) *sql.DB {
	once.Do(func() {
		cfg := config.Get()
		if cfg.DatabaseURL == "" {
			logger.Error(ctx, "DATABASE_URL is not set")
			return
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error(ctx, "Failed to open database", "error", err)
			return
		}
		db.SetMaxOpenConns(cfg.DBPoolSize)
		db.SetMaxIdleConns(max(cfg.DBPoolSize/2, 1))
		pool = db
		logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	})
	return pool
}

// Schema is the single table backing the Postgres key-value store.
const Schema = `CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// MigrateOrCreateSchema creates the kv_entries table when missing.
func MigrateOrCreateSchema(ctx context.Context) error {
	return CreateSchema(ctx, DB(ctx))
}

func CreateSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return sql.ErrConnDone
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		logger.Error(ctx, "Create kv_entries failed", "error", err)
		return err
	}
	return nil
}
