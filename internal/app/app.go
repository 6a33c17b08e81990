// Package app assembles the application: configuration, logger, database,
// blob store, services, router, and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"excelytics/internal/auth"
	"excelytics/internal/blobstore"
	"excelytics/internal/config"
	"excelytics/internal/database"
	"excelytics/internal/infrastructure"
	"excelytics/internal/middleware"
	"excelytics/internal/repositories"
	"excelytics/internal/services"
	handlers "excelytics/internal/transport/http"
)

// Version identifies the build in health responses and startup logs.
const Version = "1.0.0"

// Application is the assembled service container.
type Application struct {
	Config *config.Config
	Router *chi.Mux
	Server *http.Server
	Logger *slog.Logger

	db        *database.DB
	logCloser io.Closer
}

// New builds the application from configuration: it connects the database,
// runs migrations, constructs every service, and mounts the routes.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	logger, logCloser, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	if err := database.RunMigrations(cfg.Database.URL(), logger); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	blobs, err := blobstore.NewStore(cfg.Storage.UploadDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)

	userRepo := repositories.NewUserRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	authService := services.NewAuthService(userRepo, tokens, logger)
	fileService := services.NewFileService(fileRepo, blobs, logger)
	analysisService := services.NewAnalysisService(fileRepo, analyticsRepo, blobs, logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		db:        db,
		logCloser: logCloser,
	}
	app.Router = app.buildRouter(tokens, authService, fileService, analysisService)
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (app *Application) buildRouter(
	tokens *auth.TokenService,
	authService *services.AuthService,
	fileService *services.FileService,
	analysisService *services.AnalysisService,
) *chi.Mux {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(app.Logger))
	r.Use(middleware.Recoverer(app.Logger))
	r.Use(metrics.Handler)
	if app.Config.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			app.Config.Server.RateLimit.RPS,
			app.Config.Server.RateLimit.Burst,
			app.Logger,
		)
		r.Use(limiter.Handler)
	}

	authHandler := handlers.NewAuthHandler(authService, app.Logger)
	fileHandler := handlers.NewFileHandler(fileService, app.Config.Storage.MaxUploadSize, app.Logger)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, app.Logger)
	healthHandler := handlers.NewHealthHandler(app.db, Version)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/healthz", healthHandler.Health)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens, app.Logger))
			r.Post("/upload", fileHandler.Upload)
			r.Get("/files", fileHandler.List)
			r.Post("/parse/{fileID}", analysisHandler.Parse)
			r.Post("/analytics/{fileID}", analysisHandler.Analyze)
			r.Get("/analytics/{fileID}", analysisHandler.History)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return r
}

// Run starts the HTTP server and blocks until shutdown completes. SIGINT
// and SIGTERM trigger a graceful shutdown bounded by the configured
// timeout.
func (app *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server listening",
			slog.Int("port", app.Config.Server.Port),
			slog.String("version", Version),
		)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.close()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		app.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	err := app.Server.Shutdown(ctx)
	app.close()
	if err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	app.Logger.Info("shutdown complete")
	return nil
}

func (app *Application) close() {
	if app.db != nil {
		app.db.Close()
	}
	if app.logCloser != nil {
		app.logCloser.Close()
	}
}
