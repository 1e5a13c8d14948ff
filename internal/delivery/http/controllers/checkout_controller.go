package controllers

import (
	"log/slog"
	"net/http"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// CheckoutRequest is the card form for POST /events/{eventID}/checkout.
// Field rules are enforced by the service and reported per field.
type CheckoutRequest struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Validate implements Validator.
func (c CheckoutRequest) Validate() []string { return nil }

// ReceiptSuccessResponse is the success envelope for a checkout.
type ReceiptSuccessResponse struct {
	Data  *domain.Receipt `json:"data"`
	Error *h.APIError     `json:"error"`
}

type CheckoutController struct {
	Logger  *slog.Logger
	Service domain.CheckoutService
	Modals  domain.ModalRegistry
}

func NewCheckoutController(logger *slog.Logger, svc domain.CheckoutService, modals domain.ModalRegistry) *CheckoutController {
	return &CheckoutController{Logger: logger, Service: svc, Modals: modals}
}

// Checkout godoc
// @Summary Register for a paid event
// @Description Mock payment. The card is validated but never charged.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body CheckoutRequest true "Card details"
// @Success 201 {object} controllers.ReceiptSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/checkout [post]
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req CheckoutRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	receipt, err := c.Service.Checkout(r.Context(), eventID, user, &domain.PaymentDetails{
		CardName:   req.CardName,
		CardNumber: req.CardNumber,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if c.Modals != nil {
		c.Modals.Close(user.ID, domain.ModalRegister)
	}
	h.WriteJSONSuccess(w, http.StatusCreated, receipt)
}
