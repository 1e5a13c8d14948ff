package domain

import (
	"context"
	"time"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationRegistration NotificationType = "registration"
	NotificationProposal     NotificationType = "proposal"
	NotificationContact      NotificationType = "contact"
	NotificationUpdate       NotificationType = "update"
)

// Valid reports whether t is one of the known types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationRegistration, NotificationProposal, NotificationContact, NotificationUpdate:
		return true
	}
	return false
}

// Notification is an admin-facing message. The list is append-only, newest first.
// swagger:model Notification
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	Link      string           `json:"link,omitempty"`
}

// NotificationInput is the caller-supplied part of a notification.
type NotificationInput struct {
	Title   string
	Message string
	Type    NotificationType
	Link    string
}

// NotificationService owns the notification list.
type NotificationService interface {
	Add(ctx context.Context, in *NotificationInput) (*Notification, error)
	List(ctx context.Context) ([]*Notification, error)
	// UnreadCount is derived from the list on every call.
	UnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	Clear(ctx context.Context) error
}
