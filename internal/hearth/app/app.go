package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	httpapi "github.com/hearthhq/hearth/internal/hearth/http"
	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/internal/hearth/store/drivers/sqlite"
	"github.com/hearthhq/hearth/pkg/cryptox"
	"github.com/hearthhq/hearth/pkg/idx"
	"github.com/hearthhq/hearth/pkg/jwtx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the platform service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	signer   *jwtx.Signer
	verifier *jwtx.Verifier

	// Services
	auditService        *service.AuditService
	sessionService      *service.SessionService
	userService         *service.UserService
	notificationService *service.NotificationService
	paymentService      *service.PaymentService
	webhookService      *service.WebhookService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "hearth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, verifier, err := InitSessionKeys(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.signer = signer
	app.verifier = verifier

	app.initServices()
	app.initHTTP()

	if err := app.seedAdmin(); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	return app, nil
}

// seedAdmin creates the configured admin account if it does not exist yet.
// Idempotent across restarts.
func (app *Application) seedAdmin() error {
	if app.cfg.AdminEmail == "" {
		return nil
	}
	if app.cfg.AdminPassword == "" {
		return fmt.Errorf("HEARTH_ADMIN_EMAIL set without HEARTH_ADMIN_PASSWORD")
	}

	ctx := context.Background()
	email := strings.ToLower(app.cfg.AdminEmail)

	_, err := app.db.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	hash, err := cryptox.HashPassword(app.cfg.AdminPassword, app.cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}
	if err := app.db.Users().CreateUser(ctx, admin); err != nil {
		return err
	}

	app.logger.Info("admin account seeded", "email", email)
	return nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("hearth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down hearth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("hearth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.auditService = &service.AuditService{Store: app.db}

	app.sessionService = &service.SessionService{
		Store:      app.db,
		Signer:     app.signer,
		Verifier:   app.verifier,
		Audit:      app.auditService,
		LoginGuard: service.NewLoginGuard(),
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
		BcryptCost: app.cfg.BcryptCost,
	}

	app.userService = &service.UserService{Store: app.db, Audit: app.auditService}
	app.notificationService = &service.NotificationService{Store: app.db, Audit: app.auditService}

	if app.cfg.StripeAPIKey == "" {
		app.logger.Warn("no payment processor api key configured, payment endpoints will fail")
	}
	app.paymentService = &service.PaymentService{
		Store:    app.db,
		Provider: newStripeProvider(app.cfg.StripeAPIKey),
		Audit:    app.auditService,
	}

	app.webhookService = &service.WebhookService{Store: app.db, Audit: app.auditService}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.NotificationRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.cfg.StripeWebhookSecret,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.NotificationService = app.notificationService
	router.PaymentService = app.paymentService
	router.WebhookService = app.webhookService
	router.AuditService = app.auditService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
