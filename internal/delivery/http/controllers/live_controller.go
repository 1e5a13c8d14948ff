package controllers

import (
	"log/slog"
	"net/http"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// LiveStream upgrades a request to a websocket that receives the comments of one event.
type LiveStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request, eventID int64)
}

// CommentRequest is the request body for POST /events/{eventID}/live/comments.
type CommentRequest struct {
	Text string `json:"text"`
}

// Validate implements Validator. Length is checked by the service.
func (c CommentRequest) Validate() []string { return nil }

// RatingRequest is the request body for POST /events/{eventID}/live/rating.
type RatingRequest struct {
	Stars int `json:"stars"`
}

// Validate implements Validator.
func (r RatingRequest) Validate() []string {
	if r.Stars < 1 || r.Stars > 5 {
		return []string{"stars must be between 1 and 5"}
	}
	return nil
}

// LiveSessionSuccessResponse is the success envelope for GET /events/{eventID}/live.
type LiveSessionSuccessResponse struct {
	Data  *domain.LiveSession `json:"data"`
	Error *h.APIError         `json:"error"`
}

// CommentSuccessResponse is the success envelope for a posted comment.
type CommentSuccessResponse struct {
	Data  *domain.Comment `json:"data"`
	Error *h.APIError     `json:"error"`
}

// CommentsSuccessResponse is the success envelope for the comment list.
type CommentsSuccessResponse struct {
	Data  []*domain.Comment `json:"data"`
	Error *h.APIError       `json:"error"`
}

// RatingSuccessResponse is the success envelope for a rating.
type RatingSuccessResponse struct {
	Data  *domain.RatingSummary `json:"data"`
	Error *h.APIError           `json:"error"`
}

type LiveController struct {
	Logger  *slog.Logger
	Service domain.LiveService
	Events  domain.EventService
	Stream  LiveStream
}

func NewLiveController(logger *slog.Logger, svc domain.LiveService, events domain.EventService, stream LiveStream) *LiveController {
	return &LiveController{Logger: logger, Service: svc, Events: events, Stream: stream}
}

// Join godoc
// @Summary Join a live event
// @Description Returns the event, its chat history and the rating summary.
// @Tags live
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.LiveSessionSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/live [get]
func (c *LiveController) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	session, err := c.Service.JoinLiveEvent(r.Context(), eventID, user.ID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, session)
}

// ListComments godoc
// @Summary Live chat history
// @Tags live
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.CommentsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/live/comments [get]
func (c *LiveController) ListComments(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	comments, err := c.Service.ListComments(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, comments)
}

// PostComment godoc
// @Summary Post a chat message
// @Description The message is pushed to every websocket viewer of the event.
// @Tags live
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body CommentRequest true "Message"
// @Success 201 {object} controllers.CommentSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/live/comments [post]
func (c *LiveController) PostComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req CommentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.AddComment(r.Context(), eventID, user, req.Text)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// Rate godoc
// @Summary Rate an event
// @Description One rating per user; rating again replaces the previous value.
// @Tags live
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body RatingRequest true "Stars (1-5)"
// @Success 200 {object} controllers.RatingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/live/rating [post]
func (c *LiveController) Rate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req RatingRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	summary, err := c.Service.RateEvent(r.Context(), eventID, user.ID, req.Stars)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, summary)
}

// Watch godoc
// @Summary Live chat websocket
// @Description Browsers may pass the token as the access_token query parameter.
// @Tags live
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param access_token query string false "Bearer token for clients that cannot set headers"
// @Success 101
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/live/ws [get]
func (c *LiveController) Watch(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	if _, err := c.Events.GetEventByID(r.Context(), eventID); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Stream.ServeWS(w, r, eventID)
}
