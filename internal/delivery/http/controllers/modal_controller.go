package controllers

import (
	"net/http"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

// ModalsSuccessResponse is the success envelope for GET /ui/modals.
type ModalsSuccessResponse struct {
	Data  []domain.Modal `json:"data"`
	Error *h.APIError    `json:"error"`
}

// ModalController exposes the overlay registry of the signed-in user.
type ModalController struct {
	Modals domain.ModalRegistry
}

func NewModalController(modals domain.ModalRegistry) *ModalController {
	return &ModalController{Modals: modals}
}

// List godoc
// @Summary Overlay panels of the current user
// @Description Closed panels stay listed for a short grace period so exit animations can finish.
// @Tags ui
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ModalsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /ui/modals [get]
func (c *ModalController) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, c.Modals.List(user.ID))
}

// Close godoc
// @Summary Close an overlay panel
// @Tags ui
// @Security BearerAuth
// @Param modalID path string true "Modal ID"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /ui/modals/{modalID} [delete]
func (c *ModalController) Close(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	c.Modals.Close(user.ID, r.PathValue("modalID"))
	w.WriteHeader(http.StatusNoContent)
}
