package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"eventnexus/internal/domain"
	"eventnexus/internal/store"

	"github.com/google/uuid"
)

type notificationService struct {
	notifications  *store.Collection[domain.Notification]
	contextTimeout time.Duration
	now            func() time.Time
}

// NewNotificationService creates the NotificationService backed by the "notifications" key.
func NewNotificationService(adapter *store.Adapter, timeout time.Duration) domain.NotificationService {
	return &notificationService{
		notifications:  store.NewCollection[domain.Notification](adapter, domain.KeyNotifications),
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *notificationService) Add(ctx context.Context, in *domain.NotificationInput) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in == nil || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("notification title is required: %w", domain.ErrInvalidInput)
	}
	typ := in.Type
	if typ == "" {
		typ = domain.NotificationUpdate
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown notification type %q: %w", in.Type, domain.ErrInvalidInput)
	}
	n := domain.Notification{
		ID:        "notif-" + uuid.NewString(),
		Title:     in.Title,
		Message:   in.Message,
		Type:      typ,
		CreatedAt: s.now().UTC(),
		Link:      in.Link,
	}
	_, err := s.notifications.Update(ctx, func(items []domain.Notification) ([]domain.Notification, error) {
		// Newest first.
		return slices.Insert(items, 0, n), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add notification: %w", err)
	}
	return &n, nil
}

func (s *notificationService) List(ctx context.Context) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.notifications.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]*domain.Notification, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}

func (s *notificationService) UnreadCount(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.notifications.Items(ctx)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	return unread, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.notifications.Update(ctx, func(items []domain.Notification) ([]domain.Notification, error) {
		i := slices.IndexFunc(items, func(n domain.Notification) bool { return n.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		items[i].Read = true
		return items, nil
	})
	return err
}

func (s *notificationService) MarkAllAsRead(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.notifications.Update(ctx, func(items []domain.Notification) ([]domain.Notification, error) {
		for i := range items {
			items[i].Read = true
		}
		return items, nil
	})
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (s *notificationService) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.notifications.Update(ctx, func([]domain.Notification) ([]domain.Notification, error) {
		return []domain.Notification{}, nil
	})
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
