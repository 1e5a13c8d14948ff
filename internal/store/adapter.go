// Package store mirrors domain collections to a revisioned blob store as JSON.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"eventnexus/internal/domain"
)

// Adapter reads and writes JSON values under string keys.
type Adapter struct {
	blobs  domain.BlobStore
	logger *slog.Logger
	shared bool
}

// NewAdapter wraps a blob store.
func NewAdapter(blobs domain.BlobStore, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{blobs: blobs, logger: logger}
}

// WithSharedStore marks the blob store as written by other processes too. Collections
// over a shared adapter read the store on every access instead of keeping a cache.
func (a *Adapter) WithSharedStore() *Adapter {
	a.shared = true
	return a
}

// Load decodes the value stored under key into dest.
// It returns the stored revision and whether a readable value was found. A value that
// fails to decode is logged and reported as not found, with its revision so that the
// next Save can overwrite it. Only backend failures are returned as errors.
func (a *Adapter) Load(ctx context.Context, key string, dest any) (int64, bool, error) {
	raw, rev, err := a.blobs.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		a.logger.WarnContext(ctx, "discarding unreadable stored value", "key", key, "revision", rev, "error", err)
		return rev, false, nil
	}
	return rev, true, nil
}

// Save encodes value and writes it if the stored revision still equals rev.
func (a *Adapter) Save(ctx context.Context, key string, value any, rev int64) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}
	next, err := a.blobs.Put(ctx, key, raw, rev)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", key, err)
	}
	return next, nil
}

// Delete removes key.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	if err := a.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
