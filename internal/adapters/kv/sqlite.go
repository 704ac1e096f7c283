// Package kv implements the persistent key-value store used for queued items,
// the device identifier and offline settings.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var _ ports.KVStore = (*SQLite)(nil)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
) WITHOUT ROWID`

// SQLite is a KVStore backed by a single SQLite table.
type SQLite struct {
	db *sql.DB
}

// Option configures an SQLite store.
type Option func(*options)

type options struct {
	maxPageCount int
}

// WithMaxPageCount caps the database size in pages. Writes beyond the cap fail with domain.ErrStorageFull.
func WithMaxPageCount(pages int) Option {
	return func(o *options) {
		o.maxPageCount = pages
	}
}

// OpenSQLite opens (creating if needed) the store at path. ":memory:" opens an ephemeral store.
func OpenSQLite(path string, opts ...Option) (*SQLite, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if path != ":memory:" {
		if strings.TrimSpace(path) == "" {
			return nil, zerr.With(domain.ErrStoreOpenFailed, "reason", "empty path")
		}
		path = filepath.Clean(path)
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "path", path)
			}
		}
	}

	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "path", path)
	}
	// A single connection keeps per-connection pragmas and :memory: databases consistent.
	db.SetMaxOpenConns(1)

	store := &SQLite{db: db}
	if err := store.init(o); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "path", path)
	}
	return store, nil
}

func (s *SQLite) init(o options) error {
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	if o.maxPageCount > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA max_page_count = %d", o.maxPageCount)); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key)
	}
	return value, true, nil
}

// Set upserts value under key in one statement.
func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return writeError(err, key)
	}
	return nil
}

// Delete removes key.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return writeError(err, key)
	}
	return nil
}

// ListKeys returns the keys that start with prefix, in ascending order.
func (s *SQLite) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM kv WHERE substr(key, 1, length(?)) = ? ORDER BY key", prefix, prefix)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "prefix", prefix)
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	return keys, nil
}

// writeError wraps a failed write. A full medium is joined with domain.ErrStorageFull.
func writeError(err error, key string) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	if isFull(err) {
		return errors.Join(domain.ErrStorageFull, wrapped)
	}
	return wrapped
}

func isFull(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3lib.SQLITE_FULL {
		return true
	}
	if errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EDQUOT) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "database or disk is full")
}
