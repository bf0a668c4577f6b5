package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONBackend implements StorageBackend using a single JSON file.
//
// The file holds one JSON object mapping keys to their documents. Every write
// rewrites the whole file through a temporary file and os.Rename so readers
// never see a partial write. Values must therefore be valid JSON.
type JSONBackend struct {
	// StateFile is the absolute path to the JSON state file.
	StateFile string

	mu sync.Mutex
}

// NewJSONBackend creates a new JSONBackend for the given file path.
//
// Parent directories are created on the first write.
func NewJSONBackend(stateFile string) *JSONBackend {
	return &JSONBackend{
		StateFile: stateFile,
	}
}

// readAll loads the key map from disk.
//
// A missing or empty file is an empty map. A file that exists but does not
// hold a JSON object is reported as an error rather than discarded.
func (b *JSONBackend) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(b.StateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if len(data) == 0 {
		return make(map[string]json.RawMessage), nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt state file %s: %w", b.StateFile, err)
	}
	if entries == nil {
		entries = make(map[string]json.RawMessage)
	}
	return entries, nil
}

// writeAll atomically replaces the state file with entries.
//
// Writes JSON with 2-space indentation and a trailing newline.
func (b *JSONBackend) writeAll(entries map[string]json.RawMessage) error {
	dir := filepath.Dir(b.StateFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()

	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, b.StateFile); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}

// Get returns the document stored under key.
func (b *JSONBackend) Get(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.readAll()
	if err != nil {
		return nil, err
	}

	raw, ok := entries[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNotFound
	}
	return []byte(raw), nil
}

// Set stores value under key and rewrites the file.
//
// Returns an error if value is not valid JSON, the existing file is corrupt,
// or the atomic write fails.
func (b *JSONBackend) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.readAll()
	if err != nil {
		return err
	}

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	entries[key] = stored

	return b.writeAll(entries)
}

// Remove deletes key from the file. A missing file or key is not an error.
func (b *JSONBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.readAll()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)

	return b.writeAll(entries)
}

// Clear replaces the file with an empty object.
//
// Clear succeeds even when the existing file is corrupt, which makes it the
// recovery path for an unreadable state file.
func (b *JSONBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.writeAll(make(map[string]json.RawMessage))
}
