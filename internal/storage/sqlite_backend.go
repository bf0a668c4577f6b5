package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// schemaDDL defines the database schema for the SQLite backend.
//
// A single kv_entries table keyed by (namespace, key) holds every document.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS kv_entries (
    namespace TEXT NOT NULL,
    key TEXT NOT NULL,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (namespace, key)
);
`

// SQLiteBackend implements StorageBackend using SQLite.
//
// Each operation opens a short-lived connection in WAL mode so that a second
// process reading the file does not block the writer.
type SQLiteBackend struct {
	// DBPath is the absolute path to the SQLite database file.
	DBPath string

	// Namespace scopes every key; Clear only touches this namespace.
	Namespace string
}

// NewSQLiteBackend creates a new SQLiteBackend and initializes the database schema.
//
// Parent directories are created automatically. An empty namespace selects
// DefaultNamespace. Returns an error if schema creation fails.
func NewSQLiteBackend(dbPath, namespace string) (*SQLiteBackend, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	backend := &SQLiteBackend{
		DBPath:    dbPath,
		Namespace: namespace,
	}

	if err := backend.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return backend, nil
}

// connect opens a new database connection with WAL mode enabled.
//
// Creates parent directories if needed.
func (b *SQLiteBackend) connect() (*sql.DB, error) {
	dir := filepath.Dir(b.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", b.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	return db, nil
}

// ensureSchema creates the database schema if it doesn't exist.
func (b *SQLiteBackend) ensureSchema() error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("failed to execute schema DDL: %w", err)
	}

	return nil
}

// Get returns the value stored under key in this namespace.
func (b *SQLiteBackend) Get(key string) ([]byte, error) {
	db, err := b.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var value []byte
	err = db.QueryRow(
		`SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`,
		b.Namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return value, nil
}

// Set upserts value under key. The single statement is atomic.
func (b *SQLiteBackend) Set(key string, value []byte) error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, err = db.Exec(
		`INSERT INTO kv_entries (namespace, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET
		     value = excluded.value,
		     updated_at = excluded.updated_at`,
		b.Namespace, key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Remove deletes key from this namespace.
func (b *SQLiteBackend) Remove(key string) error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(
		`DELETE FROM kv_entries WHERE namespace = ? AND key = ?`,
		b.Namespace, key,
	); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}

	return nil
}

// Clear deletes every key in this namespace.
func (b *SQLiteBackend) Clear() error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`DELETE FROM kv_entries WHERE namespace = ?`, b.Namespace); err != nil {
		return fmt.Errorf("failed to clear namespace %q: %w", b.Namespace, err)
	}

	return nil
}
