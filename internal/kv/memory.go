// Package kv provides the in-memory Backend and the factory that opens a
// Backend from a types.Config.
package kv

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// MemoryStore implements types.Backend with an in-process map.
// Values are copied on the way in and out so callers cannot alias stored
// bytes. Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, types.ErrBackendClosed
	}
	value, ok := m.data[key]
	if !ok {
		return nil, types.ErrKeyNotFound
	}
	return slices.Clone(value), nil
}

// Put stores a copy of value under key.
func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrBackendClosed
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Delete removes key. Missing keys are ignored.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrBackendClosed
	}
	delete(m.data, key)
	return nil
}

// ListKeys returns the keys starting with prefix, sorted ascending.
func (m *MemoryStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, types.ErrBackendClosed
	}
	keys := make([]string, 0)
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Close marks the store closed. Idempotent.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
