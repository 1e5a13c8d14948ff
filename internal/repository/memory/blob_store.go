// Package memory provides an in-process BlobStore for tests and ephemeral runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"eventnexus/internal/domain"
)

type entry struct {
	value    []byte
	revision int64
}

type blobStore struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewBlobStore returns an empty in-memory domain.BlobStore.
func NewBlobStore() domain.BlobStore {
	return &blobStore{data: make(map[string]entry)}
}

func (s *blobStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	if !ok {
		return nil, 0, domain.ErrNotFound
	}
	return slices.Clone(e.value), e.revision, nil
}

func (s *blobStore) Put(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[key].revision != expectedRevision {
		return 0, domain.ErrConflict
	}
	next := expectedRevision + 1
	s.data[key] = entry{value: slices.Clone(value), revision: next}
	return next, nil
}

func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *blobStore) Close() error { return nil }
