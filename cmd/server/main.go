package main

import (
	"context"
	"crypto/ed25519"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktally/tasktally/internal/api"
	"github.com/tasktally/tasktally/internal/config"
	"github.com/tasktally/tasktally/internal/discord"
	"github.com/tasktally/tasktally/internal/handlers"
	"github.com/tasktally/tasktally/internal/scheduler"
	"github.com/tasktally/tasktally/internal/store"
	"github.com/tasktally/tasktally/internal/tasks"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the task store: PostgreSQL when configured, SQLite otherwise
	var db store.DataStore
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		db = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		db = sqliteStore
		logger.Info().Msg("using SQLite store")
	}
	defer db.Close()

	// Initialize Redis (optional, enables rate limiting)
	var redisStore *store.RedisStore
	if cfg.RedisURL != "" {
		var err error
		redisStore, err = store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		logger.Info().Msg("connected to Redis")
	}

	// Discord webhook for summary posts, edits and reminders
	webhook := discord.NewWebhook(cfg.WebhookURL)
	if cfg.WebhookURL == "" {
		logger.Warn().Msg("WEBHOOK_DAILY not set; channel posts will fail")
	}

	// Interaction signature verification key
	var publicKey ed25519.PublicKey
	if cfg.DiscordPublicKey != "" {
		var err error
		publicKey, err = discord.ParsePublicKey(cfg.DiscordPublicKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid DISCORD_PUBLIC_KEY")
		}
	} else {
		logger.Warn().Msg("DISCORD_PUBLIC_KEY not set; interactions endpoint disabled")
	}

	// Domain service and handlers
	svc := tasks.NewService(db, webhook, logger)
	h := handlers.NewHandler(svc, db, redisStore, publicKey, cfg.FormBaseURL, logger)

	// Daily reminders
	reminderTimes, err := scheduler.ParseTimes(cfg.ReminderTimes)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REMINDER_TIMES")
	}
	scheduler.New(webhook, logger, cfg.ReminderText, reminderTimes).Start(ctx)

	// Create router
	router := api.NewRouter(logger, cfg, h, redisStore)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting tasktally server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	cancel() // stop the reminder scheduler

	// Graceful shutdown with 30 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
