package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hayroo/auth/internal/auth/captcha"
	httpapi "github.com/hayroo/auth/internal/auth/http"
	"github.com/hayroo/auth/internal/auth/service"
	"github.com/hayroo/auth/internal/auth/store"
	"github.com/hayroo/auth/internal/auth/store/drivers/sqlite"
	"github.com/hayroo/auth/pkg/cryptox"
	"github.com/hayroo/auth/pkg/jwtx"
	"github.com/hayroo/auth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.HS256

	registrationService *service.RegistrationService
	loginService        *service.LoginService
	mfaService          *service.MFAService
	captchaVerifier     captcha.Verifier

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSigner(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
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

// initSigner sets up the session token signer. An unset secret gets an
// ephemeral random key; sessions will not survive a restart.
func (app *Application) initSigner() error {
	key := []byte(app.cfg.SessionSecret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("failed to generate session key: %w", err)
		}
		app.logger.Warn("AUTH_SESSION_SECRET not set, using an ephemeral session key")
	}

	signer, err := jwtx.NewHS256(key, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize session signer: %w", err)
	}
	app.signer = signer
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.registrationService = &service.RegistrationService{Store: app.db}

	app.loginService = &service.LoginService{
		Store:     app.db,
		Signer:    app.signer,
		LoginSkew: app.cfg.LoginSkew,
	}

	app.mfaService = &service.MFAService{
		Store:     app.db,
		Issuer:    app.cfg.Issuer,
		SetupSkew: app.cfg.SetupSkew,
	}

	if app.cfg.CaptchaSecret != "" {
		app.captchaVerifier = &captcha.Recaptcha{Secret: app.cfg.CaptchaSecret}
	} else {
		app.captchaVerifier = captcha.Stub{}
		app.logger.Warn("CAPTCHA_SECRET not set, captcha verification is stubbed")
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.RegistrationService = app.registrationService
	router.LoginService = app.loginService
	router.MFAService = app.mfaService
	router.Captcha = app.captchaVerifier
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
