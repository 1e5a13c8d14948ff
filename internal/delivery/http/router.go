package http

import (
	"log/slog"
	"net/http"

	_ "eventnexus/docs"
	"eventnexus/internal/delivery/http/controllers"
	"eventnexus/internal/delivery/http/middleware"
	"eventnexus/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig carries the controllers and middleware dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Users          middleware.UserResolver
	AllowedOrigins []string
	AuthRateLimit  func(http.Handler) http.Handler

	Auth          *controllers.AuthController
	Events        *controllers.EventController
	Speakers      *controllers.SpeakerController
	Live          *controllers.LiveController
	Checkout      *controllers.CheckoutController
	Export        *controllers.ExportController
	Proposals     *controllers.ProposalController
	Notifications *controllers.NotificationController
	Contact       *controllers.ContactController
	Modals        *controllers.ModalController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(cfg.Verifier, cfg.Users, cfg.Logger)
	optional := middleware.OptionalAuth(cfg.Verifier, cfg.Users)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAdmin(next))
	}
	limited := func(next http.HandlerFunc) http.Handler {
		if cfg.AuthRateLimit == nil {
			return next
		}
		return cfg.AuthRateLimit(next)
	}

	// Auth
	mux.Handle("POST /auth/login", limited(cfg.Auth.Login))
	mux.Handle("POST /auth/register", limited(cfg.Auth.Register))
	mux.Handle("POST /auth/reset-password", limited(cfg.Auth.ResetPassword))
	mux.HandleFunc("POST /auth/logout", auth(cfg.Auth.Logout))
	mux.HandleFunc("GET /users/me", auth(cfg.Auth.Me))
	mux.HandleFunc("PATCH /users/me", auth(cfg.Auth.UpdateMe))

	// Events
	mux.HandleFunc("GET /events", optional(cfg.Events.ListEvents))
	mux.HandleFunc("POST /events", admin(cfg.Events.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", optional(cfg.Events.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", admin(cfg.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", admin(cfg.Events.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/visibility", admin(cfg.Events.ToggleVisibility))
	mux.HandleFunc("GET /events/{eventID}/qr", optional(cfg.Events.QRCode))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(cfg.Events.Register))
	mux.HandleFunc("GET /events/{eventID}/registrations", admin(cfg.Events.ListRegistrations))
	mux.HandleFunc("POST /events/{eventID}/registration/prompt", auth(cfg.Events.PromptRegistration))
	mux.HandleFunc("POST /events/{eventID}/checkout", auth(cfg.Checkout.Checkout))
	mux.HandleFunc("GET /me/events", auth(cfg.Events.MyEvents))

	// Speakers
	mux.HandleFunc("POST /events/{eventID}/speakers", admin(cfg.Speakers.AddSpeaker))
	mux.HandleFunc("PATCH /events/{eventID}/speakers/{speakerID}", admin(cfg.Speakers.UpdateSpeaker))
	mux.HandleFunc("DELETE /events/{eventID}/speakers/{speakerID}", admin(cfg.Speakers.RemoveSpeaker))

	// Attendees
	mux.HandleFunc("GET /events/{eventID}/attendees", admin(cfg.Export.ListAttendees))
	mux.HandleFunc("GET /events/{eventID}/attendees/export", admin(cfg.Export.ExportAttendees))

	// Live
	mux.HandleFunc("GET /events/{eventID}/live", auth(cfg.Live.Join))
	mux.HandleFunc("GET /events/{eventID}/live/comments", auth(cfg.Live.ListComments))
	mux.HandleFunc("POST /events/{eventID}/live/comments", auth(cfg.Live.PostComment))
	mux.HandleFunc("POST /events/{eventID}/live/rating", auth(cfg.Live.Rate))
	mux.HandleFunc("GET /events/{eventID}/live/ws", auth(cfg.Live.Watch))

	// Proposals
	mux.HandleFunc("POST /proposals", cfg.Proposals.Submit)
	mux.HandleFunc("GET /proposals", admin(cfg.Proposals.List))
	mux.HandleFunc("POST /proposals/{proposalID}/read", admin(cfg.Proposals.MarkRead))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(cfg.Notifications.List))
	mux.HandleFunc("GET /notifications/unread-count", auth(cfg.Notifications.UnreadCount))
	mux.HandleFunc("POST /notifications/{notificationID}/read", auth(cfg.Notifications.MarkRead))
	mux.HandleFunc("POST /notifications/read-all", auth(cfg.Notifications.MarkAllRead))
	mux.HandleFunc("DELETE /notifications", admin(cfg.Notifications.Clear))

	// Contact and UI
	mux.HandleFunc("POST /contact", cfg.Contact.Submit)
	mux.HandleFunc("GET /ui/modals", auth(cfg.Modals.List))
	mux.HandleFunc("DELETE /ui/modals/{modalID}", auth(cfg.Modals.Close))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(cfg.Logger, mux))
}
