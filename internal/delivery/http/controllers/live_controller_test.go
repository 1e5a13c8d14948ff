package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventnexus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLiveService implements domain.LiveService with a per-event comment list.
type fakeLiveService struct {
	events   *fakeEventService
	comments map[int64][]*domain.Comment
	ratings  map[string]int
	joinedBy string
}

func newFakeLiveService(events *fakeEventService) *fakeLiveService {
	return &fakeLiveService{events: events, comments: map[int64][]*domain.Comment{}, ratings: map[string]int{}}
}

func (f *fakeLiveService) JoinLiveEvent(ctx context.Context, eventID int64, userID string) (*domain.LiveSession, error) {
	event, err := f.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	f.joinedBy = userID
	return &domain.LiveSession{Event: event, Comments: f.comments[eventID], Rating: &domain.RatingSummary{EventID: eventID}}, nil
}

func (f *fakeLiveService) ListComments(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	if _, err := f.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return f.comments[eventID], nil
}

func (f *fakeLiveService) AddComment(ctx context.Context, eventID int64, user *domain.User, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError(map[string]string{"text": "is required"})
	}
	if _, err := f.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	c := &domain.Comment{ID: "comment-1", UserID: user.ID, UserName: user.DisplayName(), Text: text, Timestamp: time.Now()}
	f.comments[eventID] = append(f.comments[eventID], c)
	return c, nil
}

func (f *fakeLiveService) RateEvent(_ context.Context, eventID int64, userID string, stars int) (*domain.RatingSummary, error) {
	f.ratings[userID] = stars
	return &domain.RatingSummary{EventID: eventID, Average: float64(stars), Count: len(f.ratings), Yours: stars}, nil
}

func (f *fakeLiveService) EnsureLiveDemoEvent(context.Context) error { return nil }

type fakeStream struct {
	served int64
}

func (f *fakeStream) ServeWS(w http.ResponseWriter, _ *http.Request, eventID int64) {
	f.served = eventID
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func newTestLiveController() (*LiveController, *fakeLiveService, *fakeStream) {
	events := newFakeEventService(testEvents()...)
	live, stream := newFakeLiveService(events), &fakeStream{}
	return NewLiveController(testLogger, live, events, stream), live, stream
}

func TestLiveController_Join(t *testing.T) {
	ctrl, live, _ := newTestLiveController()

	rr := httptest.NewRecorder()
	ctrl.Join(rr, newRequest(t, http.MethodGet, "/events/1/live", nil, regularUser, map[string]string{"eventID": "1"}))
	require.Equal(t, http.StatusOK, rr.Code)
	var session domain.LiveSession
	decodeData(t, rr, &session)
	assert.Equal(t, int64(1), session.Event.ID)
	assert.Equal(t, regularUser.ID, live.joinedBy)

	rr = httptest.NewRecorder()
	ctrl.Join(rr, newRequest(t, http.MethodGet, "/events/77/live", nil, regularUser, map[string]string{"eventID": "77"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLiveController_Comments(t *testing.T) {
	ctrl, _, _ := newTestLiveController()
	path := map[string]string{"eventID": "1"}

	rr := httptest.NewRecorder()
	ctrl.PostComment(rr, newRequest(t, http.MethodPost, "/events/1/live/comments", CommentRequest{Text: "Hello!"}, regularUser, path))
	require.Equal(t, http.StatusCreated, rr.Code)
	var c domain.Comment
	decodeData(t, rr, &c)
	assert.Equal(t, "Jane", c.UserName)

	rr = httptest.NewRecorder()
	ctrl.PostComment(rr, newRequest(t, http.MethodPost, "/events/1/live/comments", CommentRequest{Text: "   "}, regularUser, path))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Contains(t, apiErr.Fields, "text")

	rr = httptest.NewRecorder()
	ctrl.ListComments(rr, newRequest(t, http.MethodGet, "/events/1/live/comments", nil, regularUser, path))
	require.Equal(t, http.StatusOK, rr.Code)
	var comments []*domain.Comment
	decodeData(t, rr, &comments)
	assert.Len(t, comments, 1)
}

func TestLiveController_Rate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"five stars", `{"stars":5}`, http.StatusOK},
		{"zero", `{"stars":0}`, http.StatusBadRequest},
		{"six", `{"stars":6}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, _, _ := newTestLiveController()
			rr := httptest.NewRecorder()
			ctrl.Rate(rr, newRequest(t, http.MethodPost, "/events/1/live/rating", tt.body, regularUser, map[string]string{"eventID": "1"}))
			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestLiveController_Watch(t *testing.T) {
	ctrl, _, stream := newTestLiveController()

	rr := httptest.NewRecorder()
	ctrl.Watch(rr, newRequest(t, http.MethodGet, "/events/2/live/ws", nil, regularUser, map[string]string{"eventID": "2"}))
	assert.Equal(t, http.StatusSwitchingProtocols, rr.Code)
	assert.Equal(t, int64(2), stream.served)

	stream.served = 0
	rr = httptest.NewRecorder()
	ctrl.Watch(rr, newRequest(t, http.MethodGet, "/events/77/live/ws", nil, regularUser, map[string]string{"eventID": "77"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Zero(t, stream.served)
}
