package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventnexus/internal/domain"

	_ "github.com/lib/pq"
)

// Schema creates the blob table. It is applied by Open and exported for migrations tooling.
const Schema = `CREATE TABLE IF NOT EXISTS kv_blobs (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	revision   BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type blobStore struct {
	DB *sql.DB
}

// NewBlobStore returns a domain.BlobStore implemented with Postgres on an open handle.
func NewBlobStore(db *sql.DB) domain.BlobStore {
	return &blobStore{DB: db}
}

// Open connects to databaseURL, verifies the connection and ensures the schema.
func Open(ctx context.Context, databaseURL string) (domain.BlobStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return NewBlobStore(db), nil
}

func (r *blobStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var (
		value []byte
		rev   int64
	)
	err := r.DB.QueryRowContext(ctx, `SELECT value, revision FROM kv_blobs WHERE key = $1`, key).Scan(&value, &rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, err
	}
	return value, rev, nil
}

func (r *blobStore) Put(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error) {
	var next int64
	var err error
	if expectedRevision == 0 {
		err = r.DB.QueryRowContext(ctx,
			`INSERT INTO kv_blobs (key, value, revision, updated_at) VALUES ($1, $2, 1, now())
			 ON CONFLICT (key) DO NOTHING
			 RETURNING revision`, key, value).Scan(&next)
	} else {
		err = r.DB.QueryRowContext(ctx,
			`UPDATE kv_blobs SET value = $1, revision = revision + 1, updated_at = now()
			 WHERE key = $2 AND revision = $3
			 RETURNING revision`, value, key, expectedRevision).Scan(&next)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	return next, nil
}

func (r *blobStore) Delete(ctx context.Context, key string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM kv_blobs WHERE key = $1`, key)
	return err
}

func (r *blobStore) Close() error {
	return r.DB.Close()
}
