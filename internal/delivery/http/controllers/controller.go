package controllers

import (
	"net/http"
	"regexp"
	"strings"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/delivery/http/middleware"
	"eventnexus/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validEmail(email string) bool {
	return emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(email)))
}

// currentUser returns the signed-in user or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

func isAdmin(r *http.Request) bool {
	user, ok := middleware.UserFromContext(r.Context())
	return ok && user.IsAdmin()
}
