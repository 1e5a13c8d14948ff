package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventnexus/internal/domain"
	"eventnexus/internal/store"

	"github.com/google/uuid"
)

const (
	maxCommentLength = 500
	maxRatingWrites  = 5
)

type liveService struct {
	events         domain.EventService
	notifications  domain.NotificationService
	broadcaster    domain.CommentBroadcaster
	adapter        *store.Adapter
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// LiveServiceConfig carries the collaborators of the live service.
type LiveServiceConfig struct {
	Adapter       *store.Adapter
	Events        domain.EventService
	Notifications domain.NotificationService
	Broadcaster   domain.CommentBroadcaster
	Logger        *slog.Logger
	Timeout       time.Duration
}

// NewLiveService creates the LiveService. Broadcaster may be nil.
func NewLiveService(cfg LiveServiceConfig) domain.LiveService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &liveService{
		events:         cfg.Events,
		notifications:  cfg.Notifications,
		broadcaster:    cfg.Broadcaster,
		adapter:        cfg.Adapter,
		logger:         logger,
		contextTimeout: cfg.Timeout,
		now:            time.Now,
	}
}

func (s *liveService) comments(eventID int64) *store.Collection[domain.Comment] {
	return store.NewCollection[domain.Comment](s.adapter, domain.CommentsKey(eventID))
}

func (s *liveService) demoComments() []domain.Comment {
	now := s.now().UTC()
	return []domain.Comment{
		{
			ID:        "c1",
			UserID:    "admin1",
			UserName:  "Event Host",
			Text:      "Welcome everyone to this live event! Feel free to ask questions in the chat.",
			Timestamp: now,
		},
		{
			ID:        "c2",
			UserID:    "user1",
			UserName:  "Alex Chen",
			Text:      "The presentation looks great! Looking forward to the Q&A session.",
			Timestamp: now.Add(-2 * time.Minute),
		},
	}
}

func (s *liveService) JoinLiveEvent(ctx context.Context, eventID int64, userID string) (*domain.LiveSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	comments := s.comments(eventID)
	items, err := comments.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	seeded := false
	if len(items) == 0 {
		items, err = comments.Update(ctx, func(items []domain.Comment) ([]domain.Comment, error) {
			if len(items) > 0 {
				seeded = false
				return items, nil
			}
			seeded = true
			return s.demoComments(), nil
		})
		if err != nil {
			return nil, fmt.Errorf("seed comments: %w", err)
		}
	}
	if seeded && s.notifications != nil {
		_, err := s.notifications.Add(ctx, &domain.NotificationInput{
			Title:   "Event is Live Now",
			Message: fmt.Sprintf("The event %q has started! Join now.", event.Title),
			Type:    domain.NotificationUpdate,
			Link:    fmt.Sprintf("/live/%d", eventID),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "add live notification", "event_id", eventID, "error", err)
		}
	}

	rating, err := s.loadRating(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &domain.LiveSession{
		Event:    event,
		Comments: commentPointers(items),
		Rating:   summarize(eventID, rating.Ratings, userID),
	}, nil
}

func commentPointers(items []domain.Comment) []*domain.Comment {
	out := make([]*domain.Comment, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func (s *liveService) ListComments(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	items, err := s.comments(eventID).Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return commentPointers(items), nil
}

func (s *liveService) AddComment(ctx context.Context, eventID int64, user *domain.User, text string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxCommentLength {
		return nil, domain.NewValidationError(map[string]string{
			"text": fmt.Sprintf("must be between 1 and %d characters", maxCommentLength),
		})
	}
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	comment := domain.Comment{
		ID:        "comment-" + uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.DisplayName(),
		Text:      text,
		Timestamp: s.now().UTC(),
	}
	_, err := s.comments(eventID).Update(ctx, func(items []domain.Comment) ([]domain.Comment, error) {
		return append(items, comment), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(eventID, &comment)
	}
	return &comment, nil
}

func (s *liveService) loadRating(ctx context.Context, eventID int64) (domain.EventRating, error) {
	rating, _, err := s.loadRatingRev(ctx, eventID)
	return rating, err
}

func (s *liveService) loadRatingRev(ctx context.Context, eventID int64) (domain.EventRating, int64, error) {
	var rating domain.EventRating
	rev, found, err := s.adapter.Load(ctx, domain.RatingKey(eventID), &rating)
	if err != nil {
		return domain.EventRating{}, 0, fmt.Errorf("load rating: %w", err)
	}
	if !found || rating.Ratings == nil {
		rating.Ratings = map[string]int{}
	}
	return rating, rev, nil
}

func (s *liveService) RateEvent(ctx context.Context, eventID int64, userID string, stars int) (*domain.RatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if stars < 1 || stars > 5 {
		return nil, domain.NewValidationError(map[string]string{"stars": "must be between 1 and 5"})
	}
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxRatingWrites; attempt++ {
		rating, rev, err := s.loadRatingRev(ctx, eventID)
		if err != nil {
			return nil, err
		}
		rating.Ratings[userID] = stars
		_, err = s.adapter.Save(ctx, domain.RatingKey(eventID), rating, rev)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("rate event: %w", err)
		}
		return summarize(eventID, rating.Ratings, userID), nil
	}
	return nil, fmt.Errorf("rate event: %w", domain.ErrConflict)
}

func summarize(eventID int64, ratings map[string]int, userID string) *domain.RatingSummary {
	sum := &domain.RatingSummary{EventID: eventID, Count: len(ratings), Yours: ratings[userID]}
	if len(ratings) == 0 {
		return sum
	}
	total := 0
	for _, v := range ratings {
		total += v
	}
	sum.Average = float64(total) / float64(len(ratings))
	return sum
}

func (s *liveService) EnsureLiveDemoEvent(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var added bool
	rev, found, err := s.adapter.Load(ctx, domain.KeyLiveEventAdded, &added)
	if err != nil {
		return fmt.Errorf("check live demo flag: %w", err)
	}
	if found && added {
		return nil
	}

	price := 0.0
	demo := &domain.Event{
		ID:          domain.LiveDemoEventID,
		Title:       "Live Demo Event",
		Description: "Join our interactive live event showcasing the latest features of our platform!",
		Date:        s.now().Format(domain.EventDateLayout),
		Time:        s.now().Format("3:04 PM"),
		Location:    "Online",
		Image:       "https://images.unsplash.com/photo-1540575467063-178a50c2df87",
		Tags:        []string{"Live", "Demo", "Interactive"},
		Price:       &price,
		Featured:    true,
		Visible:     true,
	}
	if _, err := s.events.EnsureEvent(ctx, demo); err != nil {
		return err
	}
	if _, err := s.adapter.Save(ctx, domain.KeyLiveEventAdded, true, rev); err != nil && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("save live demo flag: %w", err)
	}
	return nil
}
