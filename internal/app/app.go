// Package app builds the application graph once at startup.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"eventnexus/config"
	"eventnexus/internal/adapters/auth"
	"eventnexus/internal/adapters/email"
	"eventnexus/internal/adapters/export"
	"eventnexus/internal/adapters/livechat"
	"eventnexus/internal/adapters/qrcode"
	delivery "eventnexus/internal/delivery/http"
	"eventnexus/internal/delivery/http/controllers"
	"eventnexus/internal/delivery/http/middleware"
	"eventnexus/internal/domain"
	"eventnexus/internal/repository/memory"
	"eventnexus/internal/repository/postgres"
	"eventnexus/internal/repository/redis"
	"eventnexus/internal/repository/sqlite"
	"eventnexus/internal/services"
	"eventnexus/internal/store"
)

// App owns the long-lived resources of the service.
type App struct {
	Handler http.Handler
	Events  domain.EventService
	Live    domain.LiveService

	blobs domain.BlobStore
	hub   *livechat.Hub
}

// OpenBlobStore opens the backend named by cfg.StoreDriver.
func OpenBlobStore(ctx context.Context, cfg *config.Config) (domain.BlobStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewBlobStore(), nil
	case config.DriverSQLite:
		blobs, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return blobs, nil
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DBUrl)
	case config.DriverRedis:
		return redis.Open(ctx, redis.Options{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// New opens the configured store and wires every service and controller.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	blobs, err := OpenBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	a, err := NewWithStore(ctx, cfg, logger, blobs)
	if err != nil {
		_ = blobs.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStore wires the application on top of an already opened blob store.
func NewWithStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, blobs domain.BlobStore) (*App, error) {
	adapter := store.NewAdapter(blobs, logger)
	if cfg.SharedStore() {
		adapter.WithSharedStore()
	}
	timeout := cfg.ContextTimeout

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureTLS,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	tokens := auth.NewJWT(cfg.JWTSecret)
	profiles := services.NewProfileStore(adapter)
	authService, err := services.NewAuthService(services.AuthConfig{
		Adapter:        adapter,
		Profiles:       profiles,
		Hasher:         auth.NewBcryptHasher(cfg.BcryptCost),
		TokenIssuer:    tokens,
		EmailService:   emailService,
		AdminEmail:     cfg.AdminEmail,
		AdminPassword:  cfg.AdminPassword,
		TokenExpiry:    cfg.JWTExpiry,
		RememberExpiry: cfg.RememberMeExpiry,
		AppURL:         cfg.AppURL,
		Logger:         logger,
		Timeout:        timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	notifications := services.NewNotificationService(adapter, timeout)
	events := services.NewEventService(services.EventServiceConfig{
		Adapter:      adapter,
		Profiles:     profiles,
		EmailService: emailService,
		AppURL:       cfg.AppURL,
		Logger:       logger,
		Timeout:      timeout,
		Seed:         services.SeedEvents,
	})
	hub := livechat.NewHub(cfg.CORSOrigins, logger)
	live := services.NewLiveService(services.LiveServiceConfig{
		Adapter:       adapter,
		Events:        events,
		Notifications: notifications,
		Broadcaster:   hub,
		Logger:        logger,
		Timeout:       timeout,
	})
	modals := services.NewModalRegistry(cfg.ModalGrace)

	rateLimit, err := middleware.RateLimit(cfg.AuthRateLimit, cfg.TrustProxy, logger)
	if err != nil {
		hub.Close()
		return nil, fmt.Errorf("configure rate limit: %w", err)
	}

	handler := delivery.NewRouter(delivery.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		Users:          authService,
		AllowedOrigins: cfg.CORSOrigins,
		AuthRateLimit:  rateLimit,
		Auth:           controllers.NewAuthController(logger, authService),
		Events:         controllers.NewEventController(logger, events, modals, qrcode.NewEncoder(), cfg.AppURL),
		Speakers:       controllers.NewSpeakerController(logger, events),
		Live:           controllers.NewLiveController(logger, live, events, hub),
		Checkout: controllers.NewCheckoutController(logger,
			services.NewCheckoutService(events, notifications, logger, timeout), modals),
		Export: controllers.NewExportController(logger,
			services.NewExportService(events, profiles, export.NewAttendeeExporter(), timeout)),
		Proposals: controllers.NewProposalController(logger,
			services.NewProposalService(adapter, notifications, emailService, logger, timeout)),
		Notifications: controllers.NewNotificationController(logger, notifications),
		Contact:       controllers.NewContactController(logger, services.NewContactService(notifications, timeout)),
		Modals:        controllers.NewModalController(modals),
	})

	if err := live.EnsureLiveDemoEvent(ctx); err != nil {
		hub.Close()
		return nil, fmt.Errorf("add live demo event: %w", err)
	}

	return &App{
		Handler: handler,
		Events:  events,
		Live:    live,
		blobs:   blobs,
		hub:     hub,
	}, nil
}

// Close disconnects websocket viewers and closes the store.
func (a *App) Close() error {
	a.hub.Close()
	if err := a.blobs.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
