package domain

import "context"

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService turns contact messages into admin notifications.
type ContactService interface {
	Submit(ctx context.Context, msg *ContactMessage) (*Notification, error)
}
