// Package cachestore implements the worker's tier namespaces on the local filesystem.
package cachestore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStorage = (*Store)(nil)

const entryExt = ".json"

// Store implements ports.CacheStorage with a directory per namespace and a file per entry.
type Store struct {
	root string
}

// NewStore creates a Store rooted at root. The directory is created on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the directory holding the namespaces.
func (s *Store) Root() string {
	return s.root
}

// Get retrieves the entry stored under key, or nil if absent.
func (s *Store) Get(namespace, key string) (*domain.CacheEntry, error) {
	filename := s.filename(namespace, key)
	//nolint:gosec // Path is constructed from the store root and a hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "namespace", namespace)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "namespace", namespace)
	}
	if entry.Key != key {
		// Hash collision: the file belongs to another key.
		return nil, nil
	}
	return &entry, nil
}

// Put replaces the entry stored under entry.Key. The write is atomic.
func (s *Store) Put(namespace string, entry *domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	dir := filepath.Join(s.root, namespace)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "namespace", namespace)
	}

	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "namespace", namespace)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return s.writeError(err, namespace)
	}
	if err := tmp.Close(); err != nil {
		return s.writeError(err, namespace)
	}
	if err := os.Rename(tmp.Name(), s.filename(namespace, entry.Key)); err != nil {
		return s.writeError(err, namespace)
	}
	return nil
}

func (s *Store) writeError(err error, namespace string) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "namespace", namespace)
	if isNoSpace(err) {
		return errors.Join(domain.ErrStorageFull, wrapped)
	}
	return wrapped
}

// Keys lists the keys stored in namespace, sorted.
func (s *Store) Keys(namespace string) ([]string, error) {
	var keys []string
	err := s.walk(namespace, func(path string, _ fs.FileInfo) error {
		//nolint:gosec // Path is produced by walking the store root
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var entry struct {
			Key string `json:"key"`
		}
		if json.Unmarshal(data, &entry) == nil && entry.Key != "" {
			keys = append(keys, entry.Key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}

// Size returns the bytes used by the entries of namespace.
func (s *Store) Size(namespace string) (int64, error) {
	var total int64
	err := s.walk(namespace, func(_ string, info fs.FileInfo) error {
		total += info.Size()
		return nil
	})
	return total, err
}

// Namespaces lists the namespaces present under the store root.
func (s *Store) Namespaces() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// DeleteNamespace removes namespace and every entry in it.
func (s *Store) DeleteNamespace(namespace string) error {
	if namespace == "" || strings.ContainsAny(namespace, `/\`) || namespace == "." || namespace == ".." {
		return zerr.With(domain.ErrCacheDeleteFailed, "namespace", namespace)
	}
	if err := os.RemoveAll(filepath.Join(s.root, namespace)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "namespace", namespace)
	}
	return nil
}

func (s *Store) walk(namespace string, fn func(path string, info fs.FileInfo) error) error {
	entries, err := os.ReadDir(filepath.Join(s.root, namespace))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "namespace", namespace)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entryExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if err := fn(filepath.Join(s.root, namespace, e.Name()), info); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "namespace", namespace)
		}
	}
	return nil
}

func (s *Store) filename(namespace, key string) string {
	return filepath.Join(s.root, namespace, strconv.FormatUint(xxhash.Sum64String(key), 16)+entryExt)
}
