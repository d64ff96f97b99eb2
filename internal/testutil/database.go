// Package testutil provides shared fixtures for HikeSafe tests: a migrated
// token database and a fluent builder for API transactions.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/HikeSafe-Project/mobile/internal/storage"
)

// SetupTestDB creates a migrated database in a temp dir. It is closed when
// the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "hikesafe.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return store
}

// SetupTokenStore returns a token store backed by a fresh test database.
func SetupTokenStore(t *testing.T) *storage.TokenStore {
	t.Helper()
	return storage.NewTokenStore(SetupTestDB(t))
}
