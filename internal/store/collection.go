package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"eventnexus/internal/domain"
)

// maxUpdateAttempts bounds the reload-and-retry loop of Update.
const maxUpdateAttempts = 5

// Collection is an in-memory array mirrored to a single key. Every change rewrites the
// whole array with the revision it was read at; a concurrent writer in another process
// makes the write fail with ErrConflict, after which the array is reloaded and the
// change applied again.
type Collection[T any] struct {
	adapter *Adapter
	key     string
	seed    func() []T
	clone   func(T) T

	mu     sync.Mutex
	loaded bool
	items  []T
	rev    int64
}

// NewCollection returns a collection bound to key. Nothing is read until first use.
func NewCollection[T any](adapter *Adapter, key string) *Collection[T] {
	return &Collection[T]{adapter: adapter, key: key}
}

// WithSeed sets the items used, and persisted, when the key is absent or unreadable.
func (c *Collection[T]) WithSeed(seed func() []T) *Collection[T] {
	c.seed = seed
	return c
}

// WithClone sets a deep-copy function for items handed out by the collection.
func (c *Collection[T]) WithClone(clone func(T) T) *Collection[T] {
	c.clone = clone
	return c
}

// Key returns the storage key.
func (c *Collection[T]) Key() string { return c.key }

// Items returns a copy of the current items.
func (c *Collection[T]) Items(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return c.copyItems(), nil
}

// Update passes a copy of the items to fn and persists what fn returns.
// If fn returns an error nothing is written and the error is returned unchanged.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		next, err := fn(c.copyItems())
		if err != nil {
			return nil, err
		}
		rev, err := c.adapter.Save(ctx, c.key, nonNil(next), c.rev)
		if errors.Is(err, domain.ErrConflict) {
			if err := c.reload(ctx); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		c.items, c.rev = next, rev
		return c.copyItems(), nil
	}
	return nil, fmt.Errorf("update %s: %w", c.key, domain.ErrConflict)
}

func (c *Collection[T]) ensureLoaded(ctx context.Context) error {
	if c.loaded && !c.adapter.shared {
		return nil
	}
	return c.reload(ctx)
}

func (c *Collection[T]) reload(ctx context.Context) error {
	var items []T
	rev, found, err := c.adapter.Load(ctx, c.key, &items)
	if err != nil {
		return err
	}
	if !found {
		items = nil
		if c.seed != nil {
			items = c.seed()
			saved, err := c.adapter.Save(ctx, c.key, nonNil(items), rev)
			switch {
			case errors.Is(err, domain.ErrConflict):
				// Someone else wrote first; take their data.
				return c.reloadNoSeed(ctx)
			case err != nil:
				return err
			}
			rev = saved
		}
	}
	c.items, c.rev, c.loaded = items, rev, true
	return nil
}

func (c *Collection[T]) reloadNoSeed(ctx context.Context) error {
	var items []T
	rev, _, err := c.adapter.Load(ctx, c.key, &items)
	if err != nil {
		return err
	}
	c.items, c.rev, c.loaded = items, rev, true
	return nil
}

func (c *Collection[T]) copyItems() []T {
	out := slices.Clone(c.items)
	if out == nil {
		out = []T{}
	}
	if c.clone != nil {
		for i := range out {
			out[i] = c.clone(out[i])
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
