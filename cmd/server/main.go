// CareerBot - AI career counselling chat server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careerbot-labs/careerbot/internal/api"
	"github.com/careerbot-labs/careerbot/internal/auth"
	"github.com/careerbot-labs/careerbot/internal/chat"
	"github.com/careerbot-labs/careerbot/internal/config"
	"github.com/careerbot-labs/careerbot/internal/middleware"
	"github.com/careerbot-labs/careerbot/internal/model"
	"github.com/careerbot-labs/careerbot/internal/prompt"
	"github.com/careerbot-labs/careerbot/internal/session"
	"github.com/careerbot-labs/careerbot/internal/store"
	"github.com/careerbot-labs/careerbot/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server",
		"port", cfg.Port,
		"provider", cfg.Model.Provider,
		"model", cfg.Model.Name,
		"dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	generator, err := model.NewClient(context.Background(), model.Config{
		Provider:       cfg.Model.Provider,
		APIKey:         cfg.Model.APIKey,
		Model:          cfg.Model.Name,
		BaseURL:        cfg.Model.BaseURL,
		RequestTimeout: cfg.Model.Timeout,
		MaxAttempts:    cfg.Model.MaxAttempts,
	})
	if err != nil {
		slog.Error("Failed to initialize model client", "error", err)
		os.Exit(1)
	}
	slog.Info("Model client ready")

	// Initialize services.
	accounts := auth.NewService(repo)
	sessions := session.NewManager(cfg.SessionTTL)
	chats := chat.NewService(repo, prompt.NewBuilder(cfg.HistoryWindowPairs), generator, cfg.Preamble)

	// Initialize handlers.
	authHandler := api.NewAuthHandler(accounts, sessions, chats, cfg.IsDevelopment())
	chatHandler := api.NewChatHandler(chats, sessions)
	healthHandler := api.NewHealthHandler(repo)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	// Public routes.
	healthHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)

	// Session-protected routes.
	chatHandler.RegisterRoutes(r)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // model round trips dominate request latency
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.StartJanitor(ctx, 10*time.Minute)
	slog.Info("Session janitor started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
