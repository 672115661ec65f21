// Package sqlite provides a SQLite-backed key-value repository.
package sqlite

import (
	"alcyxob/runrep/internal/repository"
	"alcyxob/runrep/internal/repository/sqlite/migrations"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// KeyValueRepository persists key-value entries in SQLite.
type KeyValueRepository struct {
	sqlDB *sql.DB
}

// Open opens a SQLite key-value store and applies embedded migrations.
func Open(path string) (*KeyValueRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &KeyValueRepository{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (r *KeyValueRepository) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// Get returns the stored value for key.
func (r *KeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, repository.ErrEmptyKey
	}
	var value []byte
	err := r.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value for key.
func (r *KeyValueRepository) Set(ctx context.Context, key string, value []byte, origin string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return repository.ErrEmptyKey
	}
	_, err := r.sqlDB.ExecContext(
		ctx,
		`INSERT INTO kv_entries (key, value, origin, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   value = excluded.value,
		   origin = excluded.origin,
		   updated_at = excluded.updated_at`,
		key,
		value,
		origin,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := r.sqlDB.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
