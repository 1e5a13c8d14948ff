package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"eventnexus/internal/domain"
)

type checkoutService struct {
	events         domain.EventService
	notifications  domain.NotificationService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewCheckoutService creates the mock CheckoutService. No payment provider is called.
func NewCheckoutService(events domain.EventService, notifications domain.NotificationService, logger *slog.Logger, timeout time.Duration) domain.CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		events:         events,
		notifications:  notifications,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// ValidatePayment checks the card form the way the payment page does. now decides whether
// the expiry is in the past.
func ValidatePayment(d *domain.PaymentDetails, now time.Time) error {
	if d == nil {
		return domain.NewValidationError(map[string]string{"card": "payment details are required"})
	}
	fields := map[string]string{}
	if strings.TrimSpace(d.CardName) == "" {
		fields["cardName"] = "is required"
	}
	number := strings.ReplaceAll(d.CardNumber, " ", "")
	if len(number) != 16 || !allDigits(number) {
		fields["cardNumber"] = "must be 16 digits"
	}
	if msg := checkExpiry(d.Expiry, now); msg != "" {
		fields["expiry"] = msg
	}
	if len(d.CVV) < 3 || len(d.CVV) > 4 || !allDigits(d.CVV) {
		fields["cvv"] = "must be 3 or 4 digits"
	}
	return domain.NewValidationError(fields)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func checkExpiry(expiry string, now time.Time) string {
	mm, yy, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok || len(mm) != 2 || len(yy) != 2 || !allDigits(mm) || !allDigits(yy) {
		return "must be MM/YY"
	}
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yy)
	if month < 1 || month > 12 {
		return "must be MM/YY"
	}
	year += 2000
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return "card has expired"
	}
	return ""
}

func (s *checkoutService) Checkout(ctx context.Context, eventID int64, user *domain.User, details *domain.PaymentDetails) (*domain.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPaid {
		return nil, fmt.Errorf("event %d is free: %w", eventID, domain.ErrInvalidInput)
	}
	if err := ValidatePayment(details, s.now()); err != nil {
		return nil, err
	}

	reg, created, err := s.events.RegisterWithPayment(ctx, eventID, user.ID, domain.PaymentPaid)
	if err != nil {
		return nil, fmt.Errorf("register paid attendee: %w", err)
	}
	if !created {
		return nil, fmt.Errorf("user %s already registered for event %d: %w", user.ID, eventID, domain.ErrConflict)
	}

	if s.notifications != nil {
		_, err := s.notifications.Add(ctx, &domain.NotificationInput{
			Title:   "New Paid Registration",
			Message: fmt.Sprintf("%s has registered for %s (Paid)", user.DisplayName(), event.Title),
			Type:    domain.NotificationRegistration,
			Link:    "/admin?tab=attendees",
		})
		if err != nil {
			s.logger.WarnContext(ctx, "add paid registration notification", "event_id", eventID, "error", err)
		}
	}

	number := strings.ReplaceAll(details.CardNumber, " ", "")
	return &domain.Receipt{
		EventID:      event.ID,
		EventTitle:   event.Title,
		Amount:       *event.Price,
		CardLast4:    number[len(number)-4:],
		PaidAt:       s.now().UTC(),
		Registration: reg,
	}, nil
}
