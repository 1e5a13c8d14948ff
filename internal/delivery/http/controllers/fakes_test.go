package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/delivery/http/middleware"
	"eventnexus/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	adminUser   = &domain.User{ID: "admin-1", Email: "admin@eventnexus.test", Name: "Admin User", Role: domain.RoleAdmin}
	regularUser = &domain.User{ID: "user-1", Email: "jane@example.com", Name: "Jane", Role: domain.RoleUser}
)

func float64Ptr(v float64) *float64 { return &v }

// newRequest builds a request with an optional JSON body, path values and signed-in user.
func newRequest(t *testing.T, method, target string, body any, user *domain.User, pathValues map[string]string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if user != nil {
		req = req.WithContext(middleware.SetUser(req.Context(), user))
	}
	return req
}

// decodeData decodes the data member of the response envelope into out.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *helpers.APIError {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	require.NotNil(t, env.Error)
	return env.Error
}

// fakeAuthService implements domain.AuthService for controller tests.
type fakeAuthService struct {
	session     *domain.Session
	loginOK     bool
	err         error
	gotEmail    string
	gotRemember bool
	registered  *domain.RegisterInput
	loggedOut   string
	patch       *domain.UserPatch
	resetFor    string
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string, remember bool) (*domain.Session, bool, error) {
	f.gotEmail, f.gotRemember = email, remember
	if f.err != nil {
		return nil, false, f.err
	}
	if !f.loginOK {
		return nil, false, nil
	}
	return f.session, true, nil
}

func (f *fakeAuthService) Register(_ context.Context, in *domain.RegisterInput) (*domain.Session, error) {
	f.registered = in
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeAuthService) Logout(_ context.Context, userID string) error {
	f.loggedOut = userID
	return f.err
}

func (f *fakeAuthService) CurrentUser(_ context.Context, userID string) (*domain.User, error) {
	if f.session != nil && f.session.User != nil && f.session.User.ID == userID {
		return f.session.User, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (f *fakeAuthService) UpdateUser(_ context.Context, userID string, patch *domain.UserPatch) (*domain.User, error) {
	f.patch = patch
	if f.err != nil {
		return nil, f.err
	}
	u := &domain.User{ID: userID, Email: regularUser.Email, Name: regularUser.Name, Role: domain.RoleUser}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	return u, nil
}

func (f *fakeAuthService) IsAdmin(_ context.Context, userID string) bool {
	return userID == adminUser.ID
}

func (f *fakeAuthService) ResetPassword(_ context.Context, email string) (bool, error) {
	f.resetFor = email
	return true, f.err
}

// fakeEventService keeps events and registrations in maps.
type fakeEventService struct {
	events        map[int64]*domain.Event
	registrations []*domain.Registration
	lastFilter    domain.EventFilter
	added         *domain.EventInput
	err           error
}

func newFakeEventService(events ...*domain.Event) *fakeEventService {
	f := &fakeEventService{events: map[int64]*domain.Event{}}
	for _, e := range events {
		f.events[e.ID] = e
	}
	return f
}

func (f *fakeEventService) ListEvents(_ context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Event
	for _, e := range f.events {
		if filter.Matches(e, time.Now()) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	start, end := filter.Pagination.Window(len(out))
	return out[start:end], len(out), nil
}

func (f *fakeEventService) AddEvent(_ context.Context, in *domain.EventInput) (*domain.Event, error) {
	f.added = in
	if f.err != nil {
		return nil, f.err
	}
	e := &domain.Event{ID: 42, Title: in.Title, Date: in.Date, Location: in.Location, Price: in.Price, Visible: true}
	e.DerivePaid()
	f.events[e.ID] = e
	return e, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id int64, patch *domain.EventPatch) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(e)
	return e, nil
}

func (f *fakeEventService) ToggleEventVisibility(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Visible = !e.Visible
	return e, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventService) GetEventByID(_ context.Context, id int64) (*domain.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) EnsureEvent(_ context.Context, e *domain.Event) (bool, error) {
	if _, ok := f.events[e.ID]; ok {
		return false, nil
	}
	f.events[e.ID] = e
	return true, nil
}

func (f *fakeEventService) RegisterForEvent(ctx context.Context, eventID int64, userID string) (*domain.Registration, bool, error) {
	return f.RegisterWithPayment(ctx, eventID, userID, domain.PaymentFree)
}

func (f *fakeEventService) RegisterWithPayment(_ context.Context, eventID int64, userID string, status domain.PaymentStatus) (*domain.Registration, bool, error) {
	if _, ok := f.events[eventID]; !ok {
		return nil, false, domain.ErrNotFound
	}
	for _, r := range f.registrations {
		if r.Matches(eventID, userID) {
			return r, false, nil
		}
	}
	reg := &domain.Registration{EventID: eventID, UserID: userID, PaymentStatus: status}
	f.registrations = append(f.registrations, reg)
	return reg, true, nil
}

func (f *fakeEventService) GetUserRegisteredEvents(_ context.Context, userID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, r := range f.registrations {
		if r.UserID == userID {
			if e, ok := f.events[r.EventID]; ok {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (f *fakeEventService) ListRegistrations(_ context.Context, eventID int64) ([]*domain.Registration, error) {
	if _, ok := f.events[eventID]; !ok {
		return nil, domain.ErrNotFound
	}
	var out []*domain.Registration
	for _, r := range f.registrations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEventService) AddSpeaker(_ context.Context, eventID int64, s *domain.Speaker) (*domain.Speaker, error) {
	e, ok := f.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.ID = "speaker-1"
	e.Speakers = append(e.Speakers, *s)
	return s, nil
}

func (f *fakeEventService) UpdateSpeaker(_ context.Context, eventID int64, speakerID string, patch *domain.SpeakerPatch) (*domain.Speaker, error) {
	e, ok := f.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for i := range e.Speakers {
		if e.Speakers[i].ID == speakerID {
			patch.Apply(&e.Speakers[i])
			s := e.Speakers[i]
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) RemoveSpeaker(_ context.Context, eventID int64, speakerID string) error {
	e, ok := f.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range e.Speakers {
		if e.Speakers[i].ID == speakerID {
			e.Speakers = append(e.Speakers[:i], e.Speakers[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeModals records open and close calls.
type fakeModals struct {
	opened map[string]any
	closed []string
}

func newFakeModals() *fakeModals { return &fakeModals{opened: map[string]any{}} }

func (f *fakeModals) Open(owner, id string, content any) domain.Modal {
	f.opened[owner+"/"+id] = content
	return domain.Modal{ID: id, Open: true, Content: content}
}

func (f *fakeModals) Close(owner, id string) {
	f.closed = append(f.closed, owner+"/"+id)
	delete(f.opened, owner+"/"+id)
}

func (f *fakeModals) IsOpen(owner, id string) bool {
	_, ok := f.opened[owner+"/"+id]
	return ok
}

func (f *fakeModals) Content(owner, id string) (any, bool) {
	c, ok := f.opened[owner+"/"+id]
	return c, ok
}

func (f *fakeModals) List(owner string) []domain.Modal {
	out := []domain.Modal{}
	for key, c := range f.opened {
		if len(key) > len(owner) && key[:len(owner)+1] == owner+"/" {
			out = append(out, domain.Modal{ID: key[len(owner)+1:], Open: true, Content: c})
		}
	}
	return out
}

// fakeQR returns the encoded content as the image bytes.
type fakeQR struct {
	content string
	size    int
}

func (f *fakeQR) EncodePNG(content string, size int) ([]byte, error) {
	f.content, f.size = content, size
	return []byte("png:" + content), nil
}
