package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"eventnexus/internal/domain"
	"eventnexus/internal/repository/memory"
	"eventnexus/internal/store"
)

const testTimeout = 5 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAdapter() *store.Adapter {
	return store.NewAdapter(memory.NewBlobStore(), discardLogger())
}

func float64Ptr(v float64) *float64 { return &v }
func stringPtr(v string) *string    { return &v }
func boolPtr(v bool) *bool          { return &v }

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	hashErr error
}

func (f *fakePasswordHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hash:" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	token      string
	err        error
	lastExpiry time.Duration
	lastRoles  []string
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastExpiry = expiry
	f.lastRoles = roles
	if f.token != "" {
		return f.token, nil
	}
	return "token-" + userID, nil
}

// fakeEmailService records what would have been sent.
type fakeEmailService struct {
	mu            sync.Mutex
	err           error
	resets        []*domain.PasswordResetEmailData
	proposals     []*domain.ProposalReceivedEmailData
	confirmations []*domain.RegistrationConfirmationEmailData
}

func newFakeEmailService() *fakeEmailService { return &fakeEmailService{} }

func (f *fakeEmailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, data)
	return f.err
}

func (f *fakeEmailService) SendProposalReceived(ctx context.Context, data *domain.ProposalReceivedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proposals = append(f.proposals, data)
	return f.err
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, data)
	return f.err
}

// fakeProfiles implements domain.ProfileDirectory.
type fakeProfiles struct {
	byID map[string]domain.User
	err  error
}

func (f *fakeProfiles) ProfilesByID(ctx context.Context) (map[string]domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID, nil
}

// fakeBroadcaster records broadcast comments.
type fakeBroadcaster struct {
	mu   sync.Mutex
	sent map[int64][]*domain.Comment
}

func (f *fakeBroadcaster) Broadcast(eventID int64, c *domain.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = map[int64][]*domain.Comment{}
	}
	f.sent[eventID] = append(f.sent[eventID], c)
}

// failingBlobStore fails every Put to failKey.
type failingBlobStore struct {
	domain.BlobStore
	failKey string
}

var errBackend = errors.New("backend down")

func (f *failingBlobStore) Put(ctx context.Context, key string, value []byte, rev int64) (int64, error) {
	if key == f.failKey {
		return 0, errBackend
	}
	return f.BlobStore.Put(ctx, key, value, rev)
}

type testEnv struct {
	adapter       *store.Adapter
	events        *eventService
	notifications domain.NotificationService
	profiles      *ProfileStore
	email         *fakeEmailService
}

// newTestEnv wires the event, notification and profile services over one in-memory store.
func newTestEnv(seed func() []domain.Event) *testEnv {
	adapter := newTestAdapter()
	profiles := NewProfileStore(adapter)
	email := newFakeEmailService()
	events := newEventService(EventServiceConfig{
		Adapter:      adapter,
		Profiles:     profiles,
		EmailService: email,
		AppURL:       "https://eventnexus.test/",
		Logger:       discardLogger(),
		Timeout:      testTimeout,
		Seed:         seed,
	})
	return &testEnv{
		adapter:       adapter,
		events:        events,
		notifications: NewNotificationService(adapter, testTimeout),
		profiles:      profiles,
		email:         email,
	}
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
