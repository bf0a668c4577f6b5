package storage_test

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/JamesPrial/gift-tracker/internal/storage"
	_ "modernc.org/sqlite"
)

// newTestSQLiteBackend creates a SQLiteBackend in a temporary directory.
func newTestSQLiteBackend(t *testing.T, namespace string) (*storage.SQLiteBackend, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	b, err := storage.NewSQLiteBackend(dbPath, namespace)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	return b, dbPath
}

// openDirectDB opens a direct sql.DB connection for schema verification,
// bypassing the backend abstraction.
func openDirectDB(t *testing.T, dbPath string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db directly: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_SQLiteBackend_Contract(t *testing.T) {
	t.Parallel()
	runBackendContract(t, func(t *testing.T) storage.StorageBackend {
		b, _ := newTestSQLiteBackend(t, "")
		return b
	})
}

func Test_NewSQLiteBackend_CreatesTable(t *testing.T) {
	t.Parallel()
	_, dbPath := newTestSQLiteBackend(t, "")

	db := openDirectDB(t, dbPath)
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entries'`,
	).Scan(&name)
	if err != nil {
		t.Fatalf("kv_entries table not found: %v", err)
	}
}

func Test_NewSQLiteBackend_DefaultNamespace(t *testing.T) {
	t.Parallel()
	b, _ := newTestSQLiteBackend(t, "")
	if b.Namespace != storage.DefaultNamespace {
		t.Errorf("Namespace = %q, want %q", b.Namespace, storage.DefaultNamespace)
	}
}

func Test_NewSQLiteBackend_Idempotent(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	b1, err := storage.NewSQLiteBackend(dbPath, "")
	if err != nil {
		t.Fatalf("first NewSQLiteBackend: %v", err)
	}
	if err := b1.Set("state", []byte(`{"warmth":7}`)); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	b2, err := storage.NewSQLiteBackend(dbPath, "")
	if err != nil {
		t.Fatalf("second NewSQLiteBackend on same path: %v", err)
	}
	got, err := b2.Get("state")
	if err != nil {
		t.Fatalf("Get() through second backend unexpected error: %v", err)
	}
	assertJSONEqual(t, got, []byte(`{"warmth":7}`))
}

func Test_NewSQLiteBackend_CreatesParentDirs(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "a", "b", "c", "deep.db")

	if _, err := storage.NewSQLiteBackend(dbPath, ""); err != nil {
		t.Fatalf("NewSQLiteBackend with nested dirs: %v", err)
	}
}

func Test_NewSQLiteBackend_WALMode(t *testing.T) {
	t.Parallel()
	_, dbPath := newTestSQLiteBackend(t, "")

	db := openDirectDB(t, dbPath)
	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode query failed: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode 'wal', got %q", mode)
	}
}

func Test_SQLiteBackend_NamespacesAreIsolated(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	alice, err := storage.NewSQLiteBackend(dbPath, "alice")
	if err != nil {
		t.Fatalf("NewSQLiteBackend(alice): %v", err)
	}
	bob, err := storage.NewSQLiteBackend(dbPath, "bob")
	if err != nil {
		t.Fatalf("NewSQLiteBackend(bob): %v", err)
	}

	if err := alice.Set("state", []byte(`{"who":"alice"}`)); err != nil {
		t.Fatalf("alice.Set(): %v", err)
	}
	if err := bob.Set("state", []byte(`{"who":"bob"}`)); err != nil {
		t.Fatalf("bob.Set(): %v", err)
	}

	if err := alice.Clear(); err != nil {
		t.Fatalf("alice.Clear(): %v", err)
	}
	if _, err := alice.Get("state"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("alice.Get() after Clear error = %v, want ErrNotFound", err)
	}

	got, err := bob.Get("state")
	if err != nil {
		t.Fatalf("bob.Get() after alice.Clear(): %v", err)
	}
	assertJSONEqual(t, got, []byte(`{"who":"bob"}`))
}
