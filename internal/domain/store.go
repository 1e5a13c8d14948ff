package domain

import (
	"context"
	"fmt"
)

// Storage keys. The names match the keys the web client used in local storage so
// existing blobs can be imported as-is.
const (
	KeyEvents           = "events"
	KeyAuthUser         = "authUser"
	KeyProfiles         = "profiles"
	KeyNotifications    = "notifications"
	KeySpeakerProposals = "speakerProposals"
	KeyRegistrations    = "eventRegistrations"
	KeyLiveEventAdded   = "live_event_added"
)

// CommentsKey returns the storage key of the live chat of an event.
func CommentsKey(eventID int64) string {
	return fmt.Sprintf("event_%d_comments", eventID)
}

// RatingKey returns the storage key of the ratings of an event.
func RatingKey(eventID int64) string {
	return fmt.Sprintf("event_%d_rating", eventID)
}

// BlobStore is a revisioned key-value store of opaque values.
// Revision 0 means "the key does not exist"; every successful Put returns a new revision.
type BlobStore interface {
	// Get returns the value and its revision, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, int64, error)
	// Put writes value if the stored revision equals expectedRevision and returns the new
	// revision. It returns ErrConflict when another writer got there first.
	Put(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error)
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
