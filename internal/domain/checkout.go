package domain

import (
	"context"
	"time"
)

// PaymentDetails is the card form of the mock checkout. Nothing is charged.
type PaymentDetails struct {
	CardName   string
	CardNumber string
	Expiry     string
	CVV        string
}

// Receipt confirms a mock paid registration.
// swagger:model Receipt
type Receipt struct {
	EventID      int64         `json:"eventId"`
	EventTitle   string        `json:"eventTitle"`
	Amount       float64       `json:"amount"`
	CardLast4    string        `json:"cardLast4"`
	PaidAt       time.Time     `json:"paidAt"`
	Registration *Registration `json:"registration"`
}

// CheckoutService registers a user for a paid event after validating the card form.
type CheckoutService interface {
	Checkout(ctx context.Context, eventID int64, user *User, details *PaymentDetails) (*Receipt, error)
}
