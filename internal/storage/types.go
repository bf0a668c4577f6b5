// Package storage provides the key-value persistence contract and its backends.
//
// The gift engine persists one whole document under one fixed key, so every
// backend only needs four operations against a single logical namespace. All
// backends must implement StorageBackend to be selectable by the factory.
package storage

import "errors"

// DefaultNamespace is the logical namespace used when none is configured.
const DefaultNamespace = "gift"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// StorageBackend defines the contract for key-value persistence.
//
// Values are opaque byte slices; the engine stores serialized JSON documents.
// Implementations must make Set atomic: a reader never observes a partially
// written value.
type StorageBackend interface {
	// Get returns the value stored under key.
	//
	// Returns ErrNotFound if the key is absent. Returns any other error if the
	// storage could not be read or is corrupted.
	Get(key string) ([]byte, error)

	// Set stores value under key, fully replacing any previous value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Clear deletes every key in the backend's namespace.
	Clear() error
}

// Closer is implemented by backends that hold long-lived connections.
type Closer interface {
	Close() error
}

// CloseBackend closes b if it holds resources.
func CloseBackend(b StorageBackend) error {
	if c, ok := b.(Closer); ok {
		return c.Close()
	}
	return nil
}
