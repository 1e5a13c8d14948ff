package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"eventnexus/internal/domain"
	"eventnexus/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int      `json:"id"`
	Tags []string `json:"tags"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(memory.NewBlobStore(), discardLogger())

	in := []item{{ID: 1, Tags: []string{"tech"}}, {ID: 2, Tags: []string{}}}
	rev, err := a.Save(ctx, "items", in, 0)
	require.NoError(t, err)

	var out []item
	gotRev, found, err := a.Load(ctx, "items", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rev, gotRev)
	assert.Equal(t, in, out)
}

func TestAdapter_RoundTripDomainValues(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(memory.NewBlobStore(), discardLogger())
	at := time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)
	price, spots := 25.0, 40

	event := domain.Event{
		ID:                  42,
		Title:               "GopherCon",
		Description:         "Go conference",
		ExtendedDescription: "Two days of talks",
		Date:                "Nov 3, 2025",
		Time:                "9:00 AM",
		Location:            "Berlin",
		Image:               "https://example.com/go.png",
		Tags:                []string{"Tech", "Go"},
		Price:               &price,
		IsPaid:              true,
		Attendees:           12,
		AvailableSpots:      &spots,
		Featured:            true,
		Visible:             true,
		LearningPoints:      []string{"Generics"},
		Schedule: []domain.ScheduleItem{{
			Time: "9:00 AM", Title: "Keynote", Description: "Opening",
			Speaker: &domain.ScheduleSpeaker{Name: "Rob", Image: "rob.png"},
		}},
		Speakers: []domain.Speaker{{
			ID: "s1", Name: "Rob", Title: "Engineer", Bio: "Go team", Image: "rob.png",
			Social: &domain.SpeakerSocial{Twitter: "@rob", LinkedIn: "rob", Website: "https://rob.dev"},
		}},
		TicketPackages: []domain.TicketPackage{{ID: "vip", Name: "VIP", Price: 99, Benefits: []string{"Front row"}}},
	}
	registration := domain.Registration{EventID: 42, UserID: "u1", RegisteredAt: &at, PaymentStatus: domain.PaymentPaid}
	proposal := domain.SpeakerProposal{
		ID: "p1", Name: "Ann", Email: "ann@example.com",
		SocialLinks: map[string]string{"linkedin": "ann"}, Bio: "Speaker", CreatedAt: at, IsRead: true,
	}
	notification := domain.Notification{
		ID: "n1", Title: "New registration", Message: "Ann registered",
		Type: domain.NotificationRegistration, Read: true, CreatedAt: at, Link: "/events/42",
	}

	t.Run("event", func(t *testing.T) {
		_, err := a.Save(ctx, domain.KeyEvents, []domain.Event{event}, 0)
		require.NoError(t, err)
		var out []domain.Event
		_, found, err := a.Load(ctx, domain.KeyEvents, &out)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []domain.Event{event}, out)
	})
	t.Run("registration", func(t *testing.T) {
		_, err := a.Save(ctx, domain.KeyRegistrations, []domain.Registration{registration}, 0)
		require.NoError(t, err)
		var out []domain.Registration
		_, found, err := a.Load(ctx, domain.KeyRegistrations, &out)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []domain.Registration{registration}, out)
	})
	t.Run("speaker proposal", func(t *testing.T) {
		_, err := a.Save(ctx, domain.KeySpeakerProposals, []domain.SpeakerProposal{proposal}, 0)
		require.NoError(t, err)
		var out []domain.SpeakerProposal
		_, found, err := a.Load(ctx, domain.KeySpeakerProposals, &out)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []domain.SpeakerProposal{proposal}, out)
	})
	t.Run("notification", func(t *testing.T) {
		_, err := a.Save(ctx, domain.KeyNotifications, []domain.Notification{notification}, 0)
		require.NoError(t, err)
		var out []domain.Notification
		_, found, err := a.Load(ctx, domain.KeyNotifications, &out)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []domain.Notification{notification}, out)
	})
}

func TestAdapter_LoadMissing(t *testing.T) {
	var out []item
	rev, found, err := NewAdapter(memory.NewBlobStore(), discardLogger()).Load(context.Background(), "nope", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, rev)
}

func TestAdapter_LoadCorruptLogsAndReportsNotFound(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	_, err := blobs.Put(ctx, "events", []byte("{not json"), 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	a := NewAdapter(blobs, slog.New(slog.NewTextHandler(&buf, nil)))
	var out []item
	rev, found, err := a.Load(ctx, "events", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int64(1), rev, "revision is kept so the value can be overwritten")
	assert.Contains(t, buf.String(), "discarding unreadable stored value")
	assert.Contains(t, buf.String(), "key=events")
}

type failingStore struct{ domain.BlobStore }

func (failingStore) Get(context.Context, string) ([]byte, int64, error) {
	return nil, 0, errors.New("disk on fire")
}

func TestAdapter_LoadBackendError(t *testing.T) {
	var out []item
	_, _, err := NewAdapter(failingStore{}, discardLogger()).Load(context.Background(), "events", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load events")
}

func TestCollection_SeedPersistedWhenAbsent(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	a := NewAdapter(blobs, discardLogger())
	c := NewCollection[item](a, "items").WithSeed(func() []item { return []item{{ID: 7}} })

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 7}}, items)

	raw, rev, err := blobs.Get(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	assert.JSONEq(t, `[{"id":7,"tags":null}]`, string(raw))
}

func TestCollection_SeedReplacesCorruptValue(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	_, err := blobs.Put(ctx, "items", []byte("garbage"), 0)
	require.NoError(t, err)

	c := NewCollection[item](NewAdapter(blobs, discardLogger()), "items").
		WithSeed(func() []item { return []item{{ID: 1}} })
	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1}}, items)

	_, rev, err := blobs.Get(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
}

func TestCollection_ItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item](NewAdapter(memory.NewBlobStore(), discardLogger()), "items").
		WithClone(func(it item) item {
			it.Tags = append([]string(nil), it.Tags...)
			return it
		})
	_, err := c.Update(ctx, func(items []item) ([]item, error) {
		return append(items, item{ID: 1, Tags: []string{"a"}}), nil
	})
	require.NoError(t, err)

	items, err := c.Items(ctx)
	require.NoError(t, err)
	items[0].ID = 99
	items[0].Tags[0] = "mutated"

	again, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].ID)
	assert.Equal(t, "a", again[0].Tags[0])
}

func TestCollection_UpdateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	c := NewCollection[item](NewAdapter(blobs, discardLogger()), "items")
	boom := errors.New("boom")

	_, err := c.Update(ctx, func(items []item) ([]item, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	_, _, err = blobs.Get(ctx, "items")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollection_UpdateRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	// Two processes sharing one store.
	first := NewCollection[item](NewAdapter(blobs, discardLogger()), "items")
	second := NewCollection[item](NewAdapter(blobs, discardLogger()), "items")

	_, err := first.Items(ctx)
	require.NoError(t, err)
	_, err = second.Update(ctx, func(items []item) ([]item, error) {
		return append(items, item{ID: 2}), nil
	})
	require.NoError(t, err)

	calls := 0
	got, err := first.Update(ctx, func(items []item) ([]item, error) {
		calls++
		return append(items, item{ID: 1}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "stale write is retried after reload")
	assert.Equal(t, []item{{ID: 2}, {ID: 1}}, got)
}

func TestCollection_ConcurrentUpdatesKeepEveryChange(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item](NewAdapter(memory.NewBlobStore(), discardLogger()), "items")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := c.Update(ctx, func(items []item) ([]item, error) {
				return append(items, item{ID: id}), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestCollection_SharedStoreSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	c := NewCollection[item](NewAdapter(blobs, discardLogger()).WithSharedStore(), "items")
	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = blobs.Put(ctx, "items", []byte(`[{"id":5}]`), 0)
	require.NoError(t, err)
	items, err = c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 5}}, items)

	calls := 0
	_, err = c.Update(ctx, func(items []item) ([]item, error) {
		calls++
		return append(items, item{ID: 6}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCollection_LocalStoreKeepsCache(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	c := NewCollection[item](NewAdapter(blobs, discardLogger()), "items")
	_, err := c.Items(ctx)
	require.NoError(t, err)

	_, err = blobs.Put(ctx, "items", []byte(`[{"id":5}]`), 0)
	require.NoError(t, err)
	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
