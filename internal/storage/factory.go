package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JamesPrial/gift-tracker/internal/pathutil"
)

// BackendType reads GIFT_STORAGE_BACKEND, defaulting to "json".
func BackendType() string {
	backendType := strings.ToLower(strings.TrimSpace(os.Getenv("GIFT_STORAGE_BACKEND")))
	if backendType == "" {
		backendType = "json"
	}
	return backendType
}

// Namespace reads GIFT_NAMESPACE, defaulting to DefaultNamespace.
func Namespace() string {
	ns := strings.TrimSpace(os.Getenv("GIFT_NAMESPACE"))
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

// GetStorageBackend returns the configured storage backend based on environment variables.
//
// Environment variables:
//   - GIFT_STORAGE_BACKEND: "json" (default), "sqlite", "postgres", "redis" or "memory"
//   - GIFT_STATE_PATH: custom JSON state path (default: <dataDir>/state.json)
//   - GIFT_SQLITE_PATH: custom SQLite path (default: <dataDir>/state.db)
//   - GIFT_POSTGRES_URL: PostgreSQL connection string (required for "postgres")
//   - GIFT_REDIS_ADDR, GIFT_REDIS_PASSWORD, GIFT_REDIS_DB: Redis connection (addr defaults to localhost:6379)
//   - GIFT_NAMESPACE: logical namespace for sqlite, postgres and redis (default: "gift")
//
// Returns error if backend type is unknown, a custom path escapes dataDir,
// or the backend cannot be initialized.
func GetStorageBackend(dataDir string) (StorageBackend, error) {
	switch backendType := BackendType(); backendType {
	case "json":
		path, err := getJSONPath(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to determine JSON state path: %w", err)
		}
		return NewJSONBackend(path), nil

	case "sqlite":
		path, err := getSQLitePath(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to determine SQLite database path: %w", err)
		}
		return NewSQLiteBackend(path, Namespace())

	case "postgres":
		connStr := strings.TrimSpace(os.Getenv("GIFT_POSTGRES_URL"))
		if connStr == "" {
			return nil, fmt.Errorf("GIFT_POSTGRES_URL must be set for the postgres backend")
		}
		return NewPostgresBackend(connStr, Namespace())

	case "redis":
		opts, err := getRedisOptions()
		if err != nil {
			return nil, err
		}
		return NewRedisBackend(opts)

	case "memory":
		return NewMemoryBackend(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'json', 'sqlite', 'postgres', 'redis' or 'memory'", backendType)
	}
}

// getJSONPath returns the JSON state file path.
//
// A custom GIFT_STATE_PATH is validated with pathutil.ResolveSafePath so it
// stays within dataDir.
func getJSONPath(dataDir string) (string, error) {
	customPath := strings.TrimSpace(os.Getenv("GIFT_STATE_PATH"))
	if customPath != "" {
		safePath, err := pathutil.ResolveSafePath(dataDir, customPath)
		if err != nil {
			return "", fmt.Errorf("invalid GIFT_STATE_PATH: %w", err)
		}
		return safePath, nil
	}

	return filepath.Join(dataDir, "state.json"), nil
}

// getSQLitePath returns the SQLite database file path.
func getSQLitePath(dataDir string) (string, error) {
	customPath := strings.TrimSpace(os.Getenv("GIFT_SQLITE_PATH"))
	if customPath != "" {
		safePath, err := pathutil.ResolveSafePath(dataDir, customPath)
		if err != nil {
			return "", fmt.Errorf("invalid GIFT_SQLITE_PATH: %w", err)
		}
		return safePath, nil
	}

	return filepath.Join(dataDir, "state.db"), nil
}

// getRedisOptions builds RedisOptions from the environment.
func getRedisOptions() (RedisOptions, error) {
	opts := RedisOptions{
		Addr:      strings.TrimSpace(os.Getenv("GIFT_REDIS_ADDR")),
		Password:  os.Getenv("GIFT_REDIS_PASSWORD"),
		Namespace: Namespace(),
	}
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}

	if raw := strings.TrimSpace(os.Getenv("GIFT_REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return RedisOptions{}, fmt.Errorf("invalid GIFT_REDIS_DB: %q", raw)
		}
		opts.DB = db
	}

	return opts, nil
}
