// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ieqgestao/ekklesia-go/internal/cep"
	"github.com/ieqgestao/ekklesia-go/internal/config"
	"github.com/ieqgestao/ekklesia-go/internal/handler"
	"github.com/ieqgestao/ekklesia-go/internal/logging"
	"github.com/ieqgestao/ekklesia-go/internal/middleware"
	"github.com/ieqgestao/ekklesia-go/internal/perm"
	"github.com/ieqgestao/ekklesia-go/internal/scheduler"
	"github.com/ieqgestao/ekklesia-go/internal/service"
	"github.com/ieqgestao/ekklesia-go/internal/session"
	"github.com/ieqgestao/ekklesia-go/internal/storage"
	"github.com/ieqgestao/ekklesia-go/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const galleryURLPrefix = "/gallery"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Ekklesia - Church Management System\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EKKLESIA_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EKKLESIA_DB_PATH           SQLite database path (default: ./data/ekklesia.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EKKLESIA_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EKKLESIA_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EKKLESIA_GALLERY_DIR       Photo storage directory (default: ./uploads/gallery)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EKKLESIA_CEP_BASE_URL      Postal lookup endpoint (default: https://viacep.com.br/ws)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("ekklesia %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	blobs, err := storage.NewLocalStore(cfg.GalleryDir, cfg.PublicBase+galleryURLPrefix)
	if err != nil {
		return fmt.Errorf("initializing gallery storage: %w", err)
	}
	slog.Info("gallery storage initialized", "dir", cfg.GalleryDir)

	eventService := service.NewEventService(db)
	galleryService := service.NewGalleryService(db, blobs, cfg.MaxUploadBytes())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	sched := scheduler.New(db, logger, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	authHandler := handler.NewAuthHandler(db, sessionManager, eventService, loginProtection)
	visitorHandler := handler.NewVisitorHandler(db)
	volunteerHandler := handler.NewVolunteerHandler(db)
	cellHandler := handler.NewCellHandler(db)
	userHandler := handler.NewUserHandler(db, eventService)
	galleryHandler := handler.NewGalleryHandler(db, galleryService, eventService)
	cepHandler := handler.NewCEPHandler(cep.NewClientWithBase(cfg.CEPBaseURL))
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(sessionManager.LoadAndSave)

	r.Get("/health", healthHandler.Health)

	// Auth routes (public, rate limited)
	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())
		r.Post("/login", authHandler.Login)
		r.Post("/login/federated", authHandler.FederatedLogin)
		r.Post("/register", authHandler.Register)
	})
	r.Post("/logout", authHandler.Logout)

	// REST API v1 routes (session required)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get("/cep/{code}", cepHandler.Lookup)

		r.Route("/visitors", func(r chi.Router) {
			// Listing needs only the derived capability; full visitor
			// access implies it.
			r.With(middleware.RequireCapability(perm.CapVisitorList)).Get("/", visitorHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(perm.CapVisitors))
				r.Use(middleware.RequireWritable())
				r.Post("/", visitorHandler.Create)
				r.Get("/{id}", visitorHandler.Get)
				r.Put("/{id}", visitorHandler.Update)
			})
		})

		r.Route("/volunteers", func(r chi.Router) {
			r.Use(middleware.RequireCapability(perm.CapVolunteers))
			r.Use(middleware.RequireWritable())
			r.Get("/", volunteerHandler.List)
			r.Post("/", volunteerHandler.Create)
			r.Get("/{id}", volunteerHandler.Get)
			r.Put("/{id}", volunteerHandler.Update)
			r.Delete("/{id}", volunteerHandler.Deactivate)
		})

		r.Route("/cells", func(r chi.Router) {
			r.Use(middleware.RequireCapability(perm.CapCells))
			r.Use(middleware.RequireWritable())
			r.Get("/", cellHandler.List)
			r.Post("/", cellHandler.Create)
			r.Get("/{id}", cellHandler.Get)
			r.Put("/{id}", cellHandler.Update)
			r.Delete("/{id}", cellHandler.Deactivate)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		r.Route("/albums", func(r chi.Router) {
			r.Use(middleware.RequireWritable())
			r.Get("/", galleryHandler.ListAlbums)
			r.Post("/", galleryHandler.CreateAlbum)
			r.Get("/{id}", galleryHandler.GetAlbum)
			r.Delete("/{id}", galleryHandler.DeleteAlbum)
			r.Post("/{id}/photos", galleryHandler.UploadPhoto)
		})
		r.With(middleware.RequireWritable()).Delete("/photos/{id}", galleryHandler.DeletePhoto)
	})
	slog.Info("REST API v1 mounted at /api/v1")

	// Serve stored gallery files
	galleryFiles := http.StripPrefix(galleryURLPrefix+"/", http.FileServer(http.Dir(blobs.Root())))
	r.Handle(galleryURLPrefix+"/*", galleryFiles)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
