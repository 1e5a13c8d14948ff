package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// SpeakerRequest is the request body for POST /events/{eventID}/speakers.
type SpeakerRequest struct {
	Name   string                `json:"name"`
	Title  string                `json:"title"`
	Bio    string                `json:"bio"`
	Image  string                `json:"image"`
	Social *domain.SpeakerSocial `json:"social"`
}

// Validate implements Validator.
func (s SpeakerRequest) Validate() []string {
	if strings.TrimSpace(s.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// UpdateSpeakerRequest is the request body for PATCH /events/{eventID}/speakers/{speakerID}.
type UpdateSpeakerRequest struct {
	Name   *string               `json:"name"`
	Title  *string               `json:"title"`
	Bio    *string               `json:"bio"`
	Image  *string               `json:"image"`
	Social *domain.SpeakerSocial `json:"social"`
}

// Validate implements Validator.
func (s UpdateSpeakerRequest) Validate() []string {
	if s.Name != nil && strings.TrimSpace(*s.Name) == "" {
		return []string{"name cannot be empty"}
	}
	return nil
}

// SpeakerSuccessResponse is the success envelope for a speaker.
type SpeakerSuccessResponse struct {
	Data  *domain.Speaker `json:"data"`
	Error *h.APIError     `json:"error"`
}

type SpeakerController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewSpeakerController(logger *slog.Logger, svc domain.EventService) *SpeakerController {
	return &SpeakerController{Logger: logger, Service: svc}
}

// AddSpeaker godoc
// @Summary Add a speaker to an event
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body SpeakerRequest true "Speaker"
// @Success 201 {object} controllers.SpeakerSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/speakers [post]
func (c *SpeakerController) AddSpeaker(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req SpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	speaker, err := c.Service.AddSpeaker(r.Context(), eventID, &domain.Speaker{
		Name:   strings.TrimSpace(req.Name),
		Title:  req.Title,
		Bio:    req.Bio,
		Image:  req.Image,
		Social: req.Social,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// UpdateSpeaker godoc
// @Summary Update a speaker
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param speakerID path string true "Speaker ID"
// @Param body body UpdateSpeakerRequest true "Fields to change"
// @Success 200 {object} controllers.SpeakerSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/speakers/{speakerID} [patch]
func (c *SpeakerController) UpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateSpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	speaker, err := c.Service.UpdateSpeaker(r.Context(), eventID, r.PathValue("speakerID"), &domain.SpeakerPatch{
		Name:   req.Name,
		Title:  req.Title,
		Bio:    req.Bio,
		Image:  req.Image,
		Social: req.Social,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, speaker)
}

// RemoveSpeaker godoc
// @Summary Remove a speaker
// @Tags speakers
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param speakerID path string true "Speaker ID"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/speakers/{speakerID} [delete]
func (c *SpeakerController) RemoveSpeaker(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.RemoveSpeaker(r.Context(), eventID, r.PathValue("speakerID")); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
