package ports

import (
	"context"

	"go.trai.ch/lantern/internal/core/domain"
)

// KVStore is the persistent key-value store shared by the sync queue, device and settings records.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type KVStore interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key in a single atomic write.
	// A full medium is reported as domain.ErrStorageFull.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// ListKeys returns the keys starting with prefix in ascending order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// Close releases the underlying medium.
	Close() error
}

// CacheStorage holds the tier namespaces owned by the worker.
type CacheStorage interface {
	// Get returns the entry stored under key in namespace, or nil if absent.
	Get(namespace, key string) (*domain.CacheEntry, error)

	// Put replaces the entry under entry.Key in namespace.
	Put(namespace string, entry *domain.CacheEntry) error

	// Keys lists the keys stored in namespace.
	Keys(namespace string) ([]string, error)

	// Namespaces lists every namespace present on the medium.
	Namespaces() ([]string, error)

	// DeleteNamespace removes namespace and all of its entries.
	DeleteNamespace(namespace string) error

	// Size returns the bytes the entries of namespace occupy on the medium.
	Size(namespace string) (int64, error)
}
