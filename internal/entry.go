// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/virel/pagesmith/internal/api"
	"github.com/virel/pagesmith/internal/auth"
	"github.com/virel/pagesmith/internal/content"
	"github.com/virel/pagesmith/internal/remote"
	"github.com/virel/pagesmith/internal/render"
	"github.com/virel/pagesmith/internal/sse"
	"github.com/virel/pagesmith/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_mode", cfg.Store.Mode),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the content store.
	var store remote.Provider
	var localRoot string
	switch cfg.Store.Mode {
	case StoreModeFS:
		if err := os.MkdirAll(cfg.Store.FS.Path, 0o755); err != nil {
			return fmt.Errorf("create content dir: %w", err)
		}
		fsStore, err := remote.NewFS(cfg.Store.FS.Path)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		store = fsStore
		localRoot = fsStore.Root()
	default:
		store = remote.NewGitHub(remote.GitHubOptions{
			BaseURL: cfg.Store.GitHub.BaseURL,
			Owner:   cfg.Store.GitHub.Owner,
			Repo:    cfg.Store.GitHub.Repo,
			Branch:  cfg.Store.GitHub.Branch,
			Token:   cfg.Store.GitHub.Token,
		})
	}

	repo := content.NewRepository(store)
	renderer := render.NewMarkdown()

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Auth wiring.
	authMW := api.PassthroughMiddleware()
	var authHandler *api.AuthHandler
	switch cfg.Auth.Mode {
	case AuthModeToken:
		authMW = api.TokenMiddleware(cfg.Auth.Token)
	case AuthModeOAuth:
		sessions := auth.NewSessionManager(cfg.Auth.OAuth.SessionSecret,
			time.Duration(cfg.Auth.OAuth.SessionTTLHours)*time.Hour)
		policy := auth.NewAllowlist(cfg.Auth.OAuth.AllowedLogins)
		authMW = api.SessionMiddleware(sessions, policy)
		authHandler = api.NewAuthHandler(
			auth.NewOAuth(cfg.Auth.OAuth.ClientID, cfg.Auth.OAuth.ClientSecret, cfg.Auth.OAuth.RedirectURL),
			auth.NewIdentityClient(cfg.Store.GitHub.BaseURL),
			sessions,
			policy,
		)
	}

	h := api.NewHandler(repo, renderer, broker)
	apiRouter := api.NewRouter(h, authHandler, authMW, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the local working copy for edits made outside the panel.
	if localRoot != "" {
		root := localRoot
		g.Go(func() error {
			if err := watch.Watch(gCtx, root, broker, logger); err != nil {
				logger.Warn("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
