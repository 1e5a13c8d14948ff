package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"eventnexus/internal/domain"
	"eventnexus/internal/store"

	"github.com/google/uuid"
)

type eventService struct {
	events         *store.Collection[domain.Event]
	registrations  *store.Collection[domain.Registration]
	adapter        *store.Adapter
	profiles       domain.ProfileDirectory
	emailService   domain.EmailService
	appURL         string
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	// mu makes the two-key mutations (register, delete) atomic for callers in this process.
	mu sync.Mutex
}

// EventServiceConfig carries the collaborators of the event service.
type EventServiceConfig struct {
	Adapter      *store.Adapter
	Profiles     domain.ProfileDirectory
	EmailService domain.EmailService
	AppURL       string
	Logger       *slog.Logger
	Timeout      time.Duration
	Seed         func() []domain.Event
}

// NewEventService creates the EventService backed by the "events" and
// "eventRegistrations" keys.
func NewEventService(cfg EventServiceConfig) domain.EventService {
	return newEventService(cfg)
}

func newEventService(cfg EventServiceConfig) *eventService {
	events := store.NewCollection[domain.Event](cfg.Adapter, domain.KeyEvents).
		WithClone(func(e domain.Event) domain.Event { return *e.Clone() })
	if cfg.Seed != nil {
		events = events.WithSeed(cfg.Seed)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		events:         events,
		registrations:  store.NewCollection[domain.Registration](cfg.Adapter, domain.KeyRegistrations),
		adapter:        cfg.Adapter,
		profiles:       cfg.Profiles,
		emailService:   cfg.EmailService,
		appURL:         strings.TrimSuffix(cfg.AppURL, "/"),
		logger:         logger,
		contextTimeout: cfg.Timeout,
		now:            time.Now,
	}
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.events.Items(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	now := s.now()
	var matched []*domain.Event
	for i := range events {
		if filter.Matches(&events[i], now) {
			matched = append(matched, &events[i])
		}
	}
	total := len(matched)
	start, end := filter.Pagination.Window(total)
	page := matched[start:end]
	if page == nil {
		page = []*domain.Event{}
	}
	return page, total, nil
}

// nextEventID uses the current Unix millisecond time, bumped past every existing id.
func nextEventID(events []domain.Event, now time.Time) int64 {
	id := now.UnixMilli()
	for _, e := range events {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	return id
}

func (s *eventService) AddEvent(ctx context.Context, in *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in == nil || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("event title is required: %w", domain.ErrInvalidInput)
	}
	var created domain.Event
	_, err := s.events.Update(ctx, func(events []domain.Event) ([]domain.Event, error) {
		created = domain.Event{
			ID:                  nextEventID(events, s.now()),
			Title:               strings.TrimSpace(in.Title),
			Description:         in.Description,
			ExtendedDescription: in.ExtendedDescription,
			Date:                in.Date,
			Time:                in.Time,
			Location:            in.Location,
			Image:               in.Image,
			Tags:                nonNilStrings(in.Tags),
			Price:               in.Price,
			AvailableSpots:      in.AvailableSpots,
			Featured:            in.Featured,
			Visible:             in.Visible == nil || *in.Visible,
			LearningPoints:      in.LearningPoints,
			Schedule:            in.Schedule,
			Speakers:            assignSpeakerIDs(in.Speakers),
			TicketPackages:      in.TicketPackages,
		}
		created.DerivePaid()
		created = *created.Clone()
		return append(events, created), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add event: %w", err)
	}
	return created.Clone(), nil
}

// mutateEvent applies fn to the event with id and persists the list.
func (s *eventService) mutateEvent(ctx context.Context, id int64, fn func(e *domain.Event) error) (*domain.Event, error) {
	var updated *domain.Event
	_, err := s.events.Update(ctx, func(events []domain.Event) ([]domain.Event, error) {
		i := slices.IndexFunc(events, func(e domain.Event) bool { return e.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		if err := fn(&events[i]); err != nil {
			return nil, err
		}
		events[i].DerivePaid()
		updated = events[i].Clone()
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, patch *domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch == nil {
		patch = &domain.EventPatch{}
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("event title cannot be empty: %w", domain.ErrInvalidInput)
	}
	updated, err := s.mutateEvent(ctx, id, func(e *domain.Event) error {
		patch.Apply(e)
		if patch.Speakers != nil {
			e.Speakers = assignSpeakerIDs(e.Speakers)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) ToggleEventVisibility(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	updated, err := s.mutateEvent(ctx, id, func(e *domain.Event) error {
		e.Visible = !e.Visible
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("toggle visibility: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.events.Update(ctx, func(events []domain.Event) ([]domain.Event, error) {
		i := slices.IndexFunc(events, func(e domain.Event) bool { return e.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return slices.Delete(events, i, i+1), nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	_, err = s.registrations.Update(ctx, func(regs []domain.Registration) ([]domain.Registration, error) {
		return slices.DeleteFunc(regs, func(r domain.Registration) bool { return r.EventID == id }), nil
	})
	if err != nil {
		return fmt.Errorf("delete registrations of event %d: %w", id, err)
	}

	for _, key := range []string{domain.CommentsKey(id), domain.RatingKey(id)} {
		if err := s.adapter.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "could not remove live data of deleted event", "event_id", id, "key", key, "error", err)
		}
	}
	return nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.events.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *eventService) EnsureEvent(ctx context.Context, e *domain.Event) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if e == nil {
		return false, domain.ErrInvalidInput
	}
	added := false
	_, err := s.events.Update(ctx, func(events []domain.Event) ([]domain.Event, error) {
		if slices.ContainsFunc(events, func(x domain.Event) bool { return x.ID == e.ID }) {
			added = false
			return events, nil
		}
		ev := *e.Clone()
		ev.DerivePaid()
		added = true
		return append(events, ev), nil
	})
	if err != nil {
		return false, fmt.Errorf("ensure event %d: %w", e.ID, err)
	}
	return added, nil
}

func (s *eventService) RegisterForEvent(ctx context.Context, eventID int64, userID string) (*domain.Registration, bool, error) {
	return s.register(ctx, eventID, userID, "")
}

func (s *eventService) RegisterWithPayment(ctx context.Context, eventID int64, userID string, status domain.PaymentStatus) (*domain.Registration, bool, error) {
	return s.register(ctx, eventID, userID, status)
}

// register inserts the registration and bumps the attendee counter. When the counter
// update fails, the registration is removed again so the two never drift apart.
func (s *eventService) register(ctx context.Context, eventID int64, userID string, status domain.PaymentStatus) (*domain.Registration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(userID) == "" {
		return nil, false, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	if status == "" {
		status = domain.PaymentFree
		if event.IsPaid {
			status = domain.PaymentPending
		}
	}

	var (
		reg     domain.Registration
		created bool
	)
	_, err = s.registrations.Update(ctx, func(regs []domain.Registration) ([]domain.Registration, error) {
		for _, r := range regs {
			if r.Matches(eventID, userID) {
				reg, created = r, false
				return nil, errAlreadyRegistered
			}
		}
		now := s.now().UTC()
		reg = domain.Registration{EventID: eventID, UserID: userID, RegisteredAt: &now, PaymentStatus: status}
		created = true
		return append(regs, reg), nil
	})
	if errors.Is(err, errAlreadyRegistered) {
		return &reg, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create registration: %w", err)
	}

	if _, err := s.mutateEvent(ctx, eventID, func(e *domain.Event) error {
		e.Attendees++
		return nil
	}); err != nil {
		if _, cerr := s.registrations.Update(ctx, func(regs []domain.Registration) ([]domain.Registration, error) {
			return slices.DeleteFunc(regs, func(r domain.Registration) bool { return r.Matches(eventID, userID) }), nil
		}); cerr != nil {
			s.logger.ErrorContext(ctx, "registration left without attendee count", "event_id", eventID, "user_id", userID, "error", cerr)
		}
		return nil, false, fmt.Errorf("update attendee count: %w", err)
	}

	s.sendConfirmation(ctx, event, userID, status == domain.PaymentPaid)
	return &reg, created, nil
}

var errAlreadyRegistered = errors.New("already registered")

// sendConfirmation emails the user when a profile with an email is known. Failures are logged.
func (s *eventService) sendConfirmation(ctx context.Context, event *domain.Event, userID string, paid bool) {
	if s.emailService == nil || s.profiles == nil {
		return
	}
	profiles, err := s.profiles.ProfilesByID(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load profiles for confirmation email", "error", err)
		return
	}
	user, ok := profiles[userID]
	if !ok || user.Email == "" {
		return
	}
	err = s.emailService.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{
		Email:      user.Email,
		Name:       user.DisplayName(),
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Location:   event.Location,
		EventURL:   fmt.Sprintf("%s/events/%d", s.appURL, event.ID),
		Paid:       paid,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "send registration confirmation", "event_id", event.ID, "user_id", userID, "error", err)
	}
}

func (s *eventService) GetUserRegisteredEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrations.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	events, err := s.events.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	byID := make(map[int64]*domain.Event, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}
	result := []*domain.Event{}
	for _, r := range regs {
		if r.UserID != userID {
			continue
		}
		// Registrations can outlive their event; those are skipped.
		if e, ok := byID[r.EventID]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *eventService) ListRegistrations(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrations.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	result := []*domain.Registration{}
	for i := range regs {
		if regs[i].EventID == eventID {
			result = append(result, &regs[i])
		}
	}
	return result, nil
}

func (s *eventService) AddSpeaker(ctx context.Context, eventID int64, speaker *domain.Speaker) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if speaker == nil || strings.TrimSpace(speaker.Name) == "" {
		return nil, fmt.Errorf("speaker name is required: %w", domain.ErrInvalidInput)
	}
	added := *speaker
	if added.ID == "" {
		added.ID = uuid.NewString()
	}
	_, err := s.mutateEvent(ctx, eventID, func(e *domain.Event) error {
		if slices.ContainsFunc(e.Speakers, func(sp domain.Speaker) bool { return sp.ID == added.ID }) {
			return fmt.Errorf("speaker %s already on event: %w", added.ID, domain.ErrInvalidInput)
		}
		e.Speakers = append(e.Speakers, added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *eventService) UpdateSpeaker(ctx context.Context, eventID int64, speakerID string, patch *domain.SpeakerPatch) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var updated domain.Speaker
	_, err := s.mutateEvent(ctx, eventID, func(e *domain.Event) error {
		i := slices.IndexFunc(e.Speakers, func(sp domain.Speaker) bool { return sp.ID == speakerID })
		if i < 0 {
			return domain.ErrNotFound
		}
		if patch != nil {
			patch.Apply(&e.Speakers[i])
		}
		updated = e.Speakers[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *eventService) RemoveSpeaker(ctx context.Context, eventID int64, speakerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.mutateEvent(ctx, eventID, func(e *domain.Event) error {
		i := slices.IndexFunc(e.Speakers, func(sp domain.Speaker) bool { return sp.ID == speakerID })
		if i < 0 {
			return domain.ErrNotFound
		}
		e.Speakers = slices.Delete(e.Speakers, i, i+1)
		return nil
	})
	return err
}

func assignSpeakerIDs(speakers []domain.Speaker) []domain.Speaker {
	out := slices.Clone(speakers)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
