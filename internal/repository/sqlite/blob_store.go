// Package sqlite provides the default, file-backed BlobStore.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"eventnexus/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	revision   INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// BlobStore persists blobs in a single SQLite table.
type BlobStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path and ensures the schema.
func Open(path string) (*BlobStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Every new connection would see a fresh, empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &BlobStore{db: db}, nil
}

// Close closes the database handle.
func (s *BlobStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var (
		value []byte
		rev   int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT value, revision FROM kv_blobs WHERE key = ?`, key).Scan(&value, &rev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, domain.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return value, rev, nil
}

func (s *BlobStore) Put(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error) {
	now := time.Now().UTC().UnixMilli()
	next := expectedRevision + 1
	var (
		res sql.Result
		err error
	)
	if expectedRevision == 0 {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO kv_blobs (key, value, revision, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(key) DO NOTHING`, key, value, next, now)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE kv_blobs SET value = ?, revision = ?, updated_at = ? WHERE key = ? AND revision = ?`,
			value, next, now, key, expectedRevision)
	}
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrConflict
	}
	return next, nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_blobs WHERE key = ?`, key)
	return err
}
