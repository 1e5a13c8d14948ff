package domain

import "time"

// PaymentStatus describes how a registration was paid for.
type PaymentStatus string

const (
	PaymentFree    PaymentStatus = "free"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Registration associates a user with an event. At most one exists per (EventID, UserID).
// swagger:model Registration
type Registration struct {
	EventID       int64         `json:"eventId"`
	UserID        string        `json:"userId"`
	RegisteredAt  *time.Time    `json:"registeredAt,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}

// Matches reports whether the registration is for the given pair.
func (r *Registration) Matches(eventID int64, userID string) bool {
	return r.EventID == eventID && r.UserID == userID
}
