package controllers

import (
	"log/slog"
	"net/http"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate implements Validator. Field rules are applied by the service.
func (c ContactRequest) Validate() []string { return nil }

type ContactController struct {
	Logger  *slog.Logger
	Service domain.ContactService
}

func NewContactController(logger *slog.Logger, svc domain.ContactService) *ContactController {
	return &ContactController{Logger: logger, Service: svc}
}

// Submit godoc
// @Summary Send a contact message
// @Description The message reaches the admins as a notification.
// @Tags contact
// @Accept json
// @Produce json
// @Param body body ContactRequest true "Message"
// @Success 202 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /contact [post]
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, err := c.Service.Submit(r.Context(), &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, MessageResponse{Message: "Thanks for reaching out. We will get back to you soon."})
}
