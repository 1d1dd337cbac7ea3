// Package storage provides the local key-value stores the task list is
// persisted to. Values are opaque strings; callers own the encoding.
package storage

import (
	"fmt"
	"sync"

	"github.com/valter-silva-au/todo/pkg/models"
)

// KeyValueStore is a synchronous string key-value store.
type KeyValueStore interface {
	// GetItem returns the value stored under key and whether it was present.
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Close() error
}

// Open returns the KeyValueStore for the given backend. path is ignored by
// the memory backend.
func Open(backend models.StorageBackend, path string) (KeyValueStore, error) {
	switch backend {
	case models.BackendFile, "":
		return NewFileStore(path)
	case models.BackendSQLite:
		return OpenSQLite(path)
	case models.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use file, sqlite, or memory)", backend)
	}
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStore creates a KeyValueStore that lives only for the process.
func NewMemoryStore() KeyValueStore {
	return &memoryStore{items: make(map[string]string)}
}

func (m *memoryStore) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryStore) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryStore) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *memoryStore) Close() error { return nil }
