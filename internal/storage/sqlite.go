// Package storage provides the on-device persistence layer for the HikeSafe client.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HikeSafe-Project/mobile/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Argument errors returned before any query runs.
var (
	ErrNilContext  = errors.New("storage: nil context")
	ErrEmptyString = errors.New("storage: blank argument")
)

// requireNonBlank rejects a value that is empty once trimmed.
func requireNonBlank(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, name)
	}
	return nil
}

// checkKeyArgs guards every key/value operation. A canceled context passes;
// the query itself reports that.
func checkKeyArgs(ctx context.Context, key string) error {
	if ctx == nil {
		return ErrNilContext
	}
	return requireNonBlank("key", key)
}

// SQLiteStorage is the on-device key/value store.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage opens (and creates if needed) the database at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := requireNonBlank("dbPath", dbPath); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and :memory: needs
	// exactly one to keep its data.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// newWithDB wraps an already opened handle.
func newWithDB(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// GetValue returns the value stored under key, or common.ErrNotFound.
func (s *SQLiteStorage) GetValue(ctx context.Context, key string) (string, error) {
	if err := checkKeyArgs(ctx, key); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// SetValue stores value under key, replacing any previous value.
func (s *SQLiteStorage) SetValue(ctx context.Context, key, value string) error {
	if err := checkKeyArgs(ctx, key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// DeleteValue removes key. Deleting a missing key is not an error.
func (s *SQLiteStorage) DeleteValue(ctx context.Context, key string) error {
	if err := checkKeyArgs(ctx, key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
