package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// Bounds of the QR code size query parameter.
const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	ExtendedDescription string                 `json:"extendedDescription"`
	Date                string                 `json:"date"`
	Time                string                 `json:"time"`
	Location            string                 `json:"location"`
	Image               string                 `json:"image"`
	Tags                []string               `json:"tags"`
	Price               *float64               `json:"price"`
	AvailableSpots      *int                   `json:"availableSpots"`
	Featured            bool                   `json:"featured"`
	Visible             *bool                  `json:"visible"`
	LearningPoints      []string               `json:"learningPoints"`
	Schedule            []domain.ScheduleItem  `json:"schedule"`
	Speakers            []domain.Speaker       `json:"speakers"`
	TicketPackages      []domain.TicketPackage `json:"ticketPackages"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(c.Location) == "" {
		errs = append(errs, "location is required")
	}
	if c.Price != nil && *c.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if c.AvailableSpots != nil && *c.AvailableSpots < 0 {
		errs = append(errs, "availableSpots cannot be negative")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
type UpdateEventRequest struct {
	Title               *string                 `json:"title"`
	Description         *string                 `json:"description"`
	ExtendedDescription *string                 `json:"extendedDescription"`
	Date                *string                 `json:"date"`
	Time                *string                 `json:"time"`
	Location            *string                 `json:"location"`
	Image               *string                 `json:"image"`
	Tags                *[]string               `json:"tags"`
	Price               *float64                `json:"price"`
	AvailableSpots      *int                    `json:"availableSpots"`
	Featured            *bool                   `json:"featured"`
	Visible             *bool                   `json:"visible"`
	LearningPoints      *[]string               `json:"learningPoints"`
	Schedule            *[]domain.ScheduleItem  `json:"schedule"`
	Speakers            *[]domain.Speaker       `json:"speakers"`
	TicketPackages      *[]domain.TicketPackage `json:"ticketPackages"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Price != nil && *u.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if u.AvailableSpots != nil && *u.AvailableSpots < 0 {
		errs = append(errs, "availableSpots cannot be negative")
	}
	return errs
}

// EventListResponse is the data of GET /events.
type EventListResponse struct {
	Items      []*domain.Event  `json:"items"`
	Pagination h.PaginationMeta `json:"pagination"`
}

// EventSuccessResponse is the success envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event `json:"data"`
	Error *h.APIError   `json:"error"`
}

// EventListSuccessResponse is the success envelope for GET /events.
type EventListSuccessResponse struct {
	Data  EventListResponse `json:"data"`
	Error *h.APIError       `json:"error"`
}

// EventsSuccessResponse is the success envelope for an unpaginated event list.
type EventsSuccessResponse struct {
	Data  []*domain.Event `json:"data"`
	Error *h.APIError     `json:"error"`
}

// RegistrationSuccessResponse is the success envelope for a registration.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *h.APIError          `json:"error"`
}

// RegistrationsSuccessResponse is the success envelope for the registrations of an event.
type RegistrationsSuccessResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *h.APIError            `json:"error"`
}

// RegistrationPrompt is the content of the register modal.
type RegistrationPrompt struct {
	EventID int64    `json:"eventId"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	IsPaid  bool     `json:"isPaid"`
	Price   *float64 `json:"price,omitempty"`
}

// ModalSuccessResponse is the success envelope for a modal.
type ModalSuccessResponse struct {
	Data  domain.Modal `json:"data"`
	Error *h.APIError  `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Modals  domain.ModalRegistry
	QR      domain.QREncoder
	AppURL  string
}

func NewEventController(logger *slog.Logger, svc domain.EventService, modals domain.ModalRegistry, qr domain.QREncoder, appURL string) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Modals:  modals,
		QR:      qr,
		AppURL:  strings.TrimRight(appURL, "/"),
	}
}

// ListEvents godoc
// @Summary List events
// @Description Filters combine. Hidden events are only listed for admins that pass include_hidden=true.
// @Tags events
// @Produce json
// @Param search query string false "Case-insensitive match on title or description"
// @Param category query string false "Exact tag"
// @Param location query string false "Exact location, case-insensitive"
// @Param timeframe query string false "upcoming or past"
// @Param featured query bool false "Only featured events"
// @Param include_hidden query bool false "Admins only"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 50)" default(6)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Location:   q.Get("location"),
		Pagination: h.ParsePagination(r),
	}
	switch tf := domain.Timeframe(q.Get("timeframe")); tf {
	case domain.TimeframeAll, domain.TimeframeUpcoming, domain.TimeframePast:
		filter.Timeframe = tf
	default:
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "timeframe must be upcoming or past")
		return
	}
	filter.FeaturedOnly, _ = strconv.ParseBool(q.Get("featured"))
	if hidden, _ := strconv.ParseBool(q.Get("include_hidden")); hidden && isAdmin(r) {
		filter.IncludeHidden = true
	}

	events, total, err := c.Service.ListEvents(r.Context(), filter)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Items:      events,
		Pagination: h.NewPaginationMeta(filter.Pagination.Page, filter.Pagination.PageSize, total),
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Description isPaid is derived from price. Visible defaults to true.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.AddEvent(r.Context(), &domain.EventInput{
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		ExtendedDescription: req.ExtendedDescription,
		Date:                strings.TrimSpace(req.Date),
		Time:                req.Time,
		Location:            strings.TrimSpace(req.Location),
		Image:               req.Image,
		Tags:                req.Tags,
		Price:               req.Price,
		AvailableSpots:      req.AvailableSpots,
		Featured:            req.Featured,
		Visible:             req.Visible,
		LearningPoints:      req.LearningPoints,
		Schedule:            req.Schedule,
		Speakers:            req.Speakers,
		TicketPackages:      req.TicketPackages,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event
// @Description Hidden events are reported as not found unless the caller is an admin.
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := c.visibleEvent(w, r)
	if !ok {
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Shallow merge of the given fields. isPaid is re-derived from price.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, &domain.EventPatch{
		Title:               req.Title,
		Description:         req.Description,
		ExtendedDescription: req.ExtendedDescription,
		Date:                req.Date,
		Time:                req.Time,
		Location:            req.Location,
		Image:               req.Image,
		Tags:                req.Tags,
		Price:               req.Price,
		AvailableSpots:      req.AvailableSpots,
		Featured:            req.Featured,
		Visible:             req.Visible,
		LearningPoints:      req.LearningPoints,
		Schedule:            req.Schedule,
		Speakers:            req.Speakers,
		TicketPackages:      req.TicketPackages,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ToggleVisibility godoc
// @Summary Toggle event visibility
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/visibility [post]
func (c *EventController) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.ToggleEventVisibility(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Also removes every registration for the event.
// @Tags events
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register godoc
// @Summary Register for a free event
// @Description Returns 201 for a new registration and 200 when the user was already registered. Paid events go through checkout.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_required"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registrations [post]
func (c *EventController) Register(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	event, ok := c.visibleEvent(w, r)
	if !ok {
		return
	}
	if event.IsPaid {
		h.WriteJSONError(w, http.StatusPaymentRequired, h.ErrCodePaymentRequired,
			fmt.Sprintf("event %d is paid, use POST /events/%d/checkout", event.ID, event.ID))
		return
	}
	reg, created, err := c.Service.RegisterForEvent(r.Context(), event.ID, user.ID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if c.Modals != nil {
		c.Modals.Close(user.ID, domain.ModalRegister)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSONSuccess(w, status, reg)
}

// ListRegistrations godoc
// @Summary List the registrations of an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.RegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registrations [get]
func (c *EventController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	regs, err := c.Service.ListRegistrations(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, regs)
}

// PromptRegistration godoc
// @Summary Open the registration panel for an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.ModalSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registration/prompt [post]
func (c *EventController) PromptRegistration(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	event, ok := c.visibleEvent(w, r)
	if !ok {
		return
	}
	modal := c.Modals.Open(user.ID, domain.ModalRegister, RegistrationPrompt{
		EventID: event.ID,
		Title:   event.Title,
		Date:    event.Date,
		Time:    event.Time,
		IsPaid:  event.IsPaid,
		Price:   event.Price,
	})
	h.WriteJSONSuccess(w, http.StatusOK, modal)
}

// MyEvents godoc
// @Summary Events the current user is registered for
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/events [get]
func (c *EventController) MyEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	events, err := c.Service.GetUserRegisteredEvents(r.Context(), user.ID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// QRCode godoc
// @Summary QR code linking to the event page
// @Tags events
// @Produce png
// @Param eventID path int true "Event ID"
// @Param size query int false "Edge length in pixels (64-1024)" default(256)
// @Success 200 {file} binary
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/qr [get]
func (c *EventController) QRCode(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < minQRSize || v > maxQRSize {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest,
				fmt.Sprintf("size must be between %d and %d", minQRSize, maxQRSize))
			return
		}
		size = v
	}
	event, ok := c.visibleEvent(w, r)
	if !ok {
		return
	}
	png, err := c.QR.EncodePNG(fmt.Sprintf("%s/events/%d", c.AppURL, event.ID), size)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// visibleEvent loads the event named by the eventID path value. Hidden events are
// reported as not found to everyone but admins.
func (c *EventController) visibleEvent(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return nil, false
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return nil, false
	}
	if !event.Visible && !isAdmin(r) {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
		return nil, false
	}
	return event, true
}
