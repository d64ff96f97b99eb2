package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage("  "); !errors.Is(err, ErrEmptyString) {
		t.Fatalf("NewSQLiteStorage() error = %v, want ErrEmptyString", err)
	}
}

func TestSQLiteStorage_KeyValue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.GetValue(ctx, "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("GetValue(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.SetValue(ctx, "k", "v1"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := store.SetValue(ctx, "k", "v2"); err != nil {
		t.Fatalf("SetValue() overwrite error = %v", err)
	}

	got, err := store.GetValue(ctx, "k")
	if err != nil {
		t.Fatalf("GetValue() error = %v", err)
	}
	if got != "v2" {
		t.Errorf("GetValue() = %q, want %q", got, "v2")
	}

	if err := store.DeleteValue(ctx, "k"); err != nil {
		t.Fatalf("DeleteValue() error = %v", err)
	}
	if err := store.DeleteValue(ctx, "k"); err != nil {
		t.Fatalf("DeleteValue() on missing key error = %v", err)
	}
	if _, err := store.GetValue(ctx, "k"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("GetValue() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStorage_ValidatesInput(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // nil context is the case under test
	if _, err := store.GetValue(nil, "k"); !errors.Is(err, ErrNilContext) {
		t.Errorf("GetValue(nil ctx) error = %v, want ErrNilContext", err)
	}
	if err := store.SetValue(context.Background(), "", "v"); !errors.Is(err, ErrEmptyString) {
		t.Errorf("SetValue(empty key) error = %v, want ErrEmptyString", err)
	}
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "hikesafe.db")
	ctx := context.Background()

	first, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := first.SetValue(ctx, TokenKey, "persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = first.Close()

	second, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()
	if err := second.Migrate(ctx); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	got, err := second.GetValue(ctx, TokenKey)
	if err != nil || got != "persisted" {
		t.Fatalf("GetValue() = %q, %v; want persisted", got, err)
	}
}

func TestSQLiteStorage_DriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := newWithDB(db)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs(TokenKey).WillReturnError(diskErr)
	if _, err := store.GetValue(ctx, TokenKey); !errors.Is(err, diskErr) {
		t.Errorf("GetValue() error = %v, want wrapped disk error", err)
	}

	mock.ExpectExec("INSERT INTO kv_store").WithArgs(TokenKey, "t").WillReturnError(diskErr)
	if err := store.SetValue(ctx, TokenKey, "t"); !errors.Is(err, diskErr) {
		t.Errorf("SetValue() error = %v, want wrapped disk error", err)
	}

	mock.ExpectExec("DELETE FROM kv_store").WithArgs(TokenKey).WillReturnError(diskErr)
	if err := store.DeleteValue(ctx, TokenKey); !errors.Is(err, diskErr) {
		t.Errorf("DeleteValue() error = %v, want wrapped disk error", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckKeyArgs(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		ctx     context.Context
		wantErr error
		name    string
		key     string
	}{
		{name: "token key", ctx: context.Background(), key: TokenKey},
		{name: "canceled context passes", ctx: canceled, key: TokenKey},
		{name: "nil context", ctx: nil, key: TokenKey, wantErr: ErrNilContext},
		{name: "empty key", ctx: context.Background(), key: "", wantErr: ErrEmptyString},
		{name: "blank key", ctx: context.Background(), key: " \t ", wantErr: ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkKeyArgs(tt.ctx, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("checkKeyArgs() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == ErrEmptyString && !strings.Contains(err.Error(), "key") {
				t.Errorf("error %q does not name the argument", err)
			}
		})
	}
}
