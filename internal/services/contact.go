package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"eventnexus/internal/domain"
)

type contactService struct {
	notifications  domain.NotificationService
	contextTimeout time.Duration
}

// NewContactService creates the ContactService. Every accepted message becomes a
// "contact" notification.
func NewContactService(notifications domain.NotificationService, timeout time.Duration) domain.ContactService {
	return &contactService{notifications: notifications, contextTimeout: timeout}
}

// ValidateContact applies the contact form rules.
func ValidateContact(msg *domain.ContactMessage) error {
	if msg == nil {
		return domain.NewValidationError(map[string]string{"message": "is required"})
	}
	fields := map[string]string{}
	if len(strings.TrimSpace(msg.Name)) < 2 {
		fields["name"] = "must be at least 2 characters"
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if len(strings.TrimSpace(msg.Subject)) < 5 {
		fields["subject"] = "must be at least 5 characters"
	}
	if len(strings.TrimSpace(msg.Message)) < 10 {
		fields["message"] = "must be at least 10 characters"
	}
	return domain.NewValidationError(fields)
}

func (s *contactService) Submit(ctx context.Context, msg *domain.ContactMessage) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := ValidateContact(msg); err != nil {
		return nil, err
	}
	n, err := s.notifications.Add(ctx, &domain.NotificationInput{
		Title:   "New Contact Message",
		Message: fmt.Sprintf("%s <%s>: %s", strings.TrimSpace(msg.Name), msg.Email, strings.TrimSpace(msg.Subject)),
		Type:    domain.NotificationContact,
	})
	if err != nil {
		return nil, fmt.Errorf("submit contact message: %w", err)
	}
	return n, nil
}
