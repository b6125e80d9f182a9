package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pocketdesk/pkg/logger"
)

// Postgres keeps values in the kv_entries table (see database.MigrateOrCreateSchema).
type Postgres struct {
	db     *sql.DB
	prefix string
}

func NewPostgres(db *sql.DB, prefix string) *Postgres {
	return &Postgres{db: db, prefix: prefix}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE key = $1`, p.prefix+key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "KV Get failed", "error", err, "key", key)
		return "", fmt.Errorf("postgres get %s: %w", key, err)
	}
	return v, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		p.prefix+key, value)
	if err != nil {
		logger.Error(ctx, "KV Set failed", "error", err, "key", key)
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, p.prefix+key)
	if err != nil {
		logger.Error(ctx, "KV Delete failed", "error", err, "key", key)
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE left(key, length($1)) = $1`, p.prefix)
	if err != nil {
		logger.Error(ctx, "KV Clear failed", "error", err)
		return fmt.Errorf("postgres clear: %w", err)
	}
	return nil
}
