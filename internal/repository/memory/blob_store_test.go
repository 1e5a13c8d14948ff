package memory

import (
	"context"
	"testing"

	"eventnexus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	_, _, err := s.Get(ctx, "events")
	require.ErrorIs(t, err, domain.ErrNotFound)

	rev, err := s.Put(ctx, "events", []byte(`[]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	got, gotRev, err := s.Get(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
	assert.Equal(t, rev, gotRev)

	_, err = s.Put(ctx, "events", []byte(`[1]`), 0)
	require.ErrorIs(t, err, domain.ErrConflict)

	rev, err = s.Put(ctx, "events", []byte(`[1]`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	require.NoError(t, s.Delete(ctx, "events"))
	require.NoError(t, s.Delete(ctx, "events"))
	_, _, err = s.Get(ctx, "events")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlobStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()
	value := []byte("abc")
	_, err := s.Put(ctx, "k", value, 0)
	require.NoError(t, err)
	value[0] = 'x'

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestBlobStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewBlobStore().Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
