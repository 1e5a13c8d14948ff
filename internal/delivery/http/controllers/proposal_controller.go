package controllers

import (
	"log/slog"
	"net/http"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// ProposalRequest is the public speaker application form.
type ProposalRequest struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	SocialLinks map[string]string `json:"socialLinks"`
	Bio         string            `json:"bio"`
}

// Validate implements Validator. Field rules are applied by the service.
func (p ProposalRequest) Validate() []string { return nil }

// ProposalSuccessResponse is the success envelope for a proposal.
type ProposalSuccessResponse struct {
	Data  *domain.SpeakerProposal `json:"data"`
	Error *h.APIError             `json:"error"`
}

// ProposalsSuccessResponse is the success envelope for the proposal list.
type ProposalsSuccessResponse struct {
	Data  []*domain.SpeakerProposal `json:"data"`
	Error *h.APIError               `json:"error"`
}

type ProposalController struct {
	Logger  *slog.Logger
	Service domain.ProposalService
}

func NewProposalController(logger *slog.Logger, svc domain.ProposalService) *ProposalController {
	return &ProposalController{Logger: logger, Service: svc}
}

// Submit godoc
// @Summary Apply to speak
// @Description Creates the proposal and notifies the admins.
// @Tags proposals
// @Accept json
// @Produce json
// @Param body body ProposalRequest true "Application"
// @Success 201 {object} controllers.ProposalSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /proposals [post]
func (c *ProposalController) Submit(w http.ResponseWriter, r *http.Request) {
	var req ProposalRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	proposal, err := c.Service.AddSpeakerProposal(r.Context(), &domain.ProposalInput{
		Name:        req.Name,
		Email:       req.Email,
		SocialLinks: req.SocialLinks,
		Bio:         req.Bio,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, proposal)
}

// List godoc
// @Summary List speaker proposals
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProposalsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /proposals [get]
func (c *ProposalController) List(w http.ResponseWriter, r *http.Request) {
	proposals, err := c.Service.ListSpeakerProposals(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, proposals)
}

// MarkRead godoc
// @Summary Mark a proposal as read
// @Tags proposals
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /proposals/{proposalID}/read [post]
func (c *ProposalController) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.MarkProposalAsRead(r.Context(), r.PathValue("proposalID")); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
