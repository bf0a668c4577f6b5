package storage

import "sync"

// MemoryBackend implements StorageBackend with an in-process map.
//
// Nothing survives the process. It backs tests and throwaway demo sessions.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (b *MemoryBackend) Get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value.
func (b *MemoryBackend) Set(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = v
	return nil
}

// Remove deletes key.
func (b *MemoryBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Clear deletes every key.
func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string][]byte)
	return nil
}
