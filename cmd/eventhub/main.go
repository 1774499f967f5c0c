// Copyright (c) 2025-2026 Oleg Ivanchenko
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

	"github.com/olegiv/eventhub/internal/cache"
	"github.com/olegiv/eventhub/internal/config"
	"github.com/olegiv/eventhub/internal/geoip"
	"github.com/olegiv/eventhub/internal/handler"
	"github.com/olegiv/eventhub/internal/logging"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/scheduler"
	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/session"
	"github.com/olegiv/eventhub/internal/store"
	"github.com/olegiv/eventhub/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "EventHub - event publishing and ticket booking\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTHUB_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTHUB_DB_PATH           SQLite database path (default: ./data/eventhub.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTHUB_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTHUB_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTHUB_REDIS_URL         Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTHUB_GEOIP_DB_PATH     GeoLite2-Country.mmdb path for login enrichment (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("eventhub %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
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
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
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

	// Upgrade logger to also write WARN and ERROR records to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	// Provision the moderation group and its grants. Idempotent, so safe on
	// every startup.
	ctx := context.Background()
	queries := store.New(db)
	group, err := queries.EnsureGroupWithGrants(ctx, model.StaffEditorsGroup, model.StaffEditorGrants)
	if err != nil {
		return fmt.Errorf("provisioning %s group: %w", model.StaffEditorsGroup, err)
	}
	slog.Info("moderation group ready", "group", group.Name)

	// GeoIP is optional; an empty path disables login enrichment.
	geo := geoip.NewResolver()
	if err := geo.Init(cfg.GeoIPDBPath); err != nil {
		slog.Warn("geoip init failed, continuing without country lookup", "error", err)
	}
	defer func() { _ = geo.Close() }()
	if geo.Enabled() {
		slog.Info("geoip database loaded", "path", cfg.GeoIPDBPath)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	appCache, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = appCache.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}
	categoryCache := cache.NewCategories(appCache, queries)

	templatesFS, err := web.TemplatesFS()
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	auditService := service.NewAuditService(db, geo)
	eventService := service.NewEventService(db)
	bookingService := service.NewBookingService(db)

	retention := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour
	sched := scheduler.New(auditService, geo, retention, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Router and middleware stack
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Handlers
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, auditService, loginProtection, categoryCache)
	eventHandler := handler.NewEventHandler(db, renderer, eventService, bookingService, auditService, categoryCache)
	ticketHandler := handler.NewTicketHandler(db, renderer, bookingService, auditService, categoryCache)
	reviewHandler := handler.NewReviewHandler(db, renderer, bookingService, auditService)
	favoriteHandler := handler.NewFavoriteHandler(db, renderer, bookingService, categoryCache)
	categoryHandler := handler.NewCategoryHandler(db, renderer, eventService, auditService, categoryCache)
	dashboardHandler := handler.NewDashboardHandler(db, renderer, categoryCache)

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.OptionalLoadUser(sessionManager, db))

		r.Get(handler.RouteRoot, eventHandler.List)
		r.Get(handler.RouteEvents+"/{slug}", eventHandler.Detail)

		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.Post(handler.RouteRegister, authHandler.Register)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
	})

	// Signed-in pages
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Post(handler.RouteLogout, authHandler.Logout)
		r.Get(handler.RouteProfile, authHandler.Profile)
		r.Post(handler.RouteProfile, authHandler.UpdateProfile)

		r.Get(handler.RouteEventNew, eventHandler.NewForm)
		r.Post(handler.RouteEventNew, eventHandler.Create)
		r.Get(handler.RouteEvents+"/{slug}/edit", eventHandler.EditForm)
		r.Post(handler.RouteEvents+"/{slug}/edit", eventHandler.Update)
		r.Post(handler.RouteEvents+"/{slug}/delete", eventHandler.Delete)

		r.Post(handler.RouteEvents+"/{slug}/book", ticketHandler.Book)

		r.Post(handler.RouteEvents+"/{slug}/reviews", reviewHandler.Create)
		r.Post("/reviews/{id}/edit", reviewHandler.Update)
		r.Post("/reviews/{id}/delete", reviewHandler.Delete)

		r.Post(handler.RouteEvents+"/{slug}/favorite", favoriteHandler.Add)
		r.Post(handler.RouteEvents+"/{slug}/unfavorite", favoriteHandler.Remove)
		r.Get(handler.RouteFavorites, favoriteHandler.List)

		r.Get(handler.RouteDashboard, dashboardHandler.Index)
	})

	// Moderation pages. Staff and admin roles may view the category list;
	// creating and deleting requires the staff flag.
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.With(middleware.RequireStaffish()).Get(handler.RouteManageCategories, categoryHandler.Manage)
		r.With(middleware.RequireStaff()).Post(handler.RouteManageCategories, categoryHandler.Create)
		r.With(middleware.RequireStaff()).Post(handler.RouteManageCategories+"/{id}/delete", categoryHandler.Delete)
	})

	// Static assets, cached for a year
	staticFS, err := web.StaticFS()
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/",
		cacheControl(31536000)(http.FileServer(http.FS(staticFS)))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
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

// cacheControl sets a public max-age header on static responses.
func cacheControl(seconds int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
			next.ServeHTTP(w, r)
		})
	}
}
