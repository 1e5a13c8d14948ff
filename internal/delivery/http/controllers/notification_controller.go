package controllers

import (
	"log/slog"
	"net/http"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// UnreadCount is the data of GET /notifications/unread-count.
type UnreadCount struct {
	Count int `json:"count"`
}

// NotificationsSuccessResponse is the success envelope for the notification list.
type NotificationsSuccessResponse struct {
	Data  []*domain.Notification `json:"data"`
	Error *h.APIError            `json:"error"`
}

// UnreadCountSuccessResponse is the success envelope for the unread count.
type UnreadCountSuccessResponse struct {
	Data  UnreadCount `json:"data"`
	Error *h.APIError `json:"error"`
}

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.NotificationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// UnreadCount godoc
// @Summary Number of unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UnreadCountSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := c.Service.UnreadCount(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, UnreadCount{Count: n})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Param notificationID path string true "Notification ID"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /notifications/{notificationID}/read [post]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.MarkAsRead(r.Context(), r.PathValue("notificationID")); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark every notification as read
// @Tags notifications
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.MarkAllAsRead(r.Context()); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear godoc
// @Summary Delete all notifications
// @Tags notifications
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /notifications [delete]
func (c *NotificationController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Clear(r.Context()); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
