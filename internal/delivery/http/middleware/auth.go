package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

// UserResolver returns the signed-in user behind a verified token subject.
// domain.AuthService satisfies it.
type UserResolver interface {
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// SetUser returns a context carrying the signed-in user.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the signed-in user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok && u != nil
}

// UserIDFromContext returns the signed-in user's id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return "", false
	}
	return u.ID, true
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		// Browsers cannot set headers on websocket handshakes.
		if t := r.URL.Query().Get("access_token"); t != "" && isWebsocketUpgrade(r) {
			return t, ""
		}
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func authenticate(r *http.Request, verifier domain.TokenVerifier, users UserResolver) (*domain.User, string, error) {
	token, problem := bearerToken(r)
	if problem != "" {
		return nil, problem, nil
	}
	userID, err := verifier.Verify(token)
	if err != nil {
		return nil, "invalid or expired token", nil
	}
	user, err := users.CurrentUser(r.Context(), userID)
	if errors.Is(err, domain.ErrUnauthenticated) {
		return nil, "session has ended", nil
	}
	if err != nil {
		return nil, "", err
	}
	return user, "", nil
}

// RequireAuth validates the Bearer token, checks that the user is still signed in and
// stores the user in the request context. Otherwise it responds 401 without calling next.
func RequireAuth(verifier domain.TokenVerifier, users UserResolver, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, problem, err := authenticate(r, verifier, users)
			if err != nil {
				logger.ErrorContext(r.Context(), "resolve signed-in user", "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
				return
			}
			if user == nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, problem)
				return
			}
			next(w, r.WithContext(SetUser(r.Context(), user)))
		}
	}
}

// OptionalAuth attaches the user when a valid token is present and otherwise serves the
// request anonymously.
func OptionalAuth(verifier domain.TokenVerifier, users UserResolver) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if user, _, err := authenticate(r, verifier, users); err == nil && user != nil {
				r = r.WithContext(SetUser(r.Context(), user))
			}
			next(w, r)
		}
	}
}

// RequireAdmin responds 403 unless the signed-in user carries the admin role. It must run
// after RequireAuth.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
			return
		}
		if !user.IsAdmin() {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "admin role required")
			return
		}
		next(w, r)
	}
}
