package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// AttendeesSuccessResponse is the success envelope for the attendee list.
type AttendeesSuccessResponse struct {
	Data  []domain.AttendeeRow `json:"data"`
	Error *h.APIError          `json:"error"`
}

type ExportController struct {
	Logger  *slog.Logger
	Service domain.ExportService
}

func NewExportController(logger *slog.Logger, svc domain.ExportService) *ExportController {
	return &ExportController{Logger: logger, Service: svc}
}

// ListAttendees godoc
// @Summary Attendees of an event
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.AttendeesSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/attendees [get]
func (c *ExportController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	rows, err := c.Service.Attendees(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rows)
}

// ExportAttendees godoc
// @Summary Download the attendee list
// @Tags attendees
// @Produce octet-stream
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param format query string false "csv, xlsx or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/attendees/export [get]
func (c *ExportController) ExportAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = domain.FormatCSV
	}
	file, err := c.Service.ExportAttendees(r.Context(), eventID, format)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
