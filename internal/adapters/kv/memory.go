package kv

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.KVStore = (*Memory)(nil)

// Memory is an ephemeral KVStore. A positive capacity bounds the total stored bytes.
type Memory struct {
	mu       sync.RWMutex
	data     map[string][]byte
	size     int
	capacity int
}

// NewMemory creates an empty in-memory store. capacity <= 0 means unbounded.
func NewMemory(capacity int) *Memory {
	return &Memory{
		data:     make(map[string][]byte),
		capacity: capacity,
	}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(value), true, nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.size - len(m.data[key]) + len(value)
	if m.capacity > 0 && next > m.capacity {
		return domain.ErrStorageFull
	}
	m.data[key] = slices.Clone(value)
	m.size = next
	return nil
}

// Delete removes key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.size -= len(m.data[key])
	delete(m.data, key)
	return nil
}

// ListKeys returns the keys that start with prefix, in ascending order.
func (m *Memory) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
