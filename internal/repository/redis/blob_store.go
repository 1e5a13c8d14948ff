// Package redis provides a BlobStore on Redis hashes with optimistic transactions.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"eventnexus/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	fieldValue    = "value"
	fieldRevision = "rev"
)

// Options configures the Redis connection.
type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type blobStore struct {
	client *redis.Client
	prefix string
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (domain.BlobStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewBlobStore(client, opts.KeyPrefix), nil
}

// NewBlobStore wraps an existing client. Every key is stored as a hash under prefix+key.
func NewBlobStore(client *redis.Client, prefix string) domain.BlobStore {
	return &blobStore{client: client, prefix: prefix}
}

func (s *blobStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	vals, err := s.client.HMGet(ctx, s.prefix+key, fieldValue, fieldRevision).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, 0, domain.ErrNotFound
	}
	value, _ := vals[0].(string)
	revStr, _ := vals[1].(string)
	rev, err := strconv.ParseInt(revStr, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("parse revision of %s: %w", key, err)
	}
	return []byte(value), rev, nil
}

func (s *blobStore) Put(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error) {
	k := s.prefix + key
	next := expectedRevision + 1
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, k, fieldRevision).Int64()
		switch {
		case errors.Is(err, redis.Nil):
			current = 0
		case err != nil:
			return err
		}
		if current != expectedRevision {
			return domain.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, fieldValue, value, fieldRevision, next)
			return nil
		})
		return err
	}, k)
	if errors.Is(err, redis.TxFailedErr) {
		return 0, domain.ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (s *blobStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *blobStore) Close() error {
	return s.client.Close()
}
