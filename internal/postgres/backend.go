// Package postgres implements the key-value Backend on a PostgreSQL table,
// for deployments where several storefront processes share one store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mesh-intelligence/storefront/internal/postgres/migrations"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// openTimeout bounds the connectivity check and migrations run by Open.
const openTimeout = 10 * time.Second

// Backend implements types.Backend over database/sql with the pgx driver.
type Backend struct {
	mu     sync.RWMutex
	closed bool
	db     *sql.DB
}

// Open connects to dsn, verifies connectivity and applies migrations.
func Open(dsn string) (*Backend, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Backend{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Get returns the value stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := b.ready(ctx); err != nil {
		return nil, err
	}
	defer b.mu.RUnlock()

	var value []byte
	err := b.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

// Put upserts value under key.
func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	if err := b.ready(ctx); err != nil {
		return err
	}
	defer b.mu.RUnlock()

	if value == nil {
		value = []byte{}
	}
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := b.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.ready(ctx); err != nil {
		return err
	}
	defer b.mu.RUnlock()

	if _, err := b.db.ExecContext(ctx, "DELETE FROM kv WHERE key = $1", key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListKeys returns keys starting with prefix in byte order.
func (b *Backend) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := b.ready(ctx); err != nil {
		return nil, err
	}
	defer b.mu.RUnlock()

	rows, err := b.db.QueryContext(ctx,
		"SELECT key FROM kv WHERE starts_with(key, $1) ORDER BY key", prefix)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the connection pool. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

// ready checks ctx and the closed flag. On success the read lock is held
// and the caller must release it.
func (b *Backend) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return types.ErrBackendClosed
	}
	return nil
}
