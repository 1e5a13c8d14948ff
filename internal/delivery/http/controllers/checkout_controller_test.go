package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheckoutService struct {
	err     error
	details *domain.PaymentDetails
}

func (f *fakeCheckoutService) Checkout(_ context.Context, eventID int64, user *domain.User, d *domain.PaymentDetails) (*domain.Receipt, error) {
	f.details = d
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Receipt{
		EventID:      eventID,
		Amount:       25,
		CardLast4:    d.CardNumber[len(d.CardNumber)-4:],
		PaidAt:       time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Registration: &domain.Registration{EventID: eventID, UserID: user.ID, PaymentStatus: domain.PaymentPaid},
	}, nil
}

func TestCheckoutController_Checkout(t *testing.T) {
	card := CheckoutRequest{CardName: "Jane Doe", CardNumber: "4242 4242 4242 4242", Expiry: "12/99", CVV: "123"}
	tests := []struct {
		name       string
		svc        *fakeCheckoutService
		user       *domain.User
		wantStatus int
		wantCode   string
	}{
		{"paid", &fakeCheckoutService{}, regularUser, http.StatusCreated, ""},
		{"signed out", &fakeCheckoutService{}, nil, http.StatusUnauthorized, helpers.ErrCodeUnauthorized},
		{"bad card", &fakeCheckoutService{err: domain.NewValidationError(map[string]string{"cvv": "must be 3 or 4 digits"})}, regularUser, http.StatusBadRequest, helpers.ErrCodeValidation},
		{"already registered", &fakeCheckoutService{err: domain.ErrConflict}, regularUser, http.StatusConflict, helpers.ErrCodeConflict},
		{"missing event", &fakeCheckoutService{err: domain.ErrNotFound}, regularUser, http.StatusNotFound, helpers.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modals := newFakeModals()
			ctrl := NewCheckoutController(testLogger, tt.svc, modals)
			rr := httptest.NewRecorder()
			ctrl.Checkout(rr, newRequest(t, http.MethodPost, "/events/2/checkout", card, tt.user, map[string]string{"eventID": "2"}))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				assert.Empty(t, modals.closed)
				return
			}
			var receipt domain.Receipt
			decodeData(t, rr, &receipt)
			assert.Equal(t, "4242", receipt.CardLast4)
			assert.Equal(t, domain.PaymentPaid, receipt.Registration.PaymentStatus)
			assert.Equal(t, []string{regularUser.ID + "/" + domain.ModalRegister}, modals.closed)
		})
	}
}
