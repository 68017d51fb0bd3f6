package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"homevisit/config"
	"homevisit/internal/api"
	"homevisit/internal/db"
	"homevisit/internal/notification"
	"homevisit/internal/store"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("service", "homevisitd").Logger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("failed to read .env file")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}
	logger.Info().Str("path", configPath).Msg("configuration loaded")

	loc, err := cfg.Site.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid site timezone")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database initialized")

	appStore := store.NewGormStore(gormDB)

	opts := api.Options{
		Site:     cfg.Site,
		Location: loc,
		Logger:   &logger,
	}
	if mailer := notification.NewMailer(cfg.Email); mailer != nil {
		opts.Mailer = mailer
		opts.MailFrom = mailer.From()
		logger.Info().Str("host", cfg.Email.Host).Msg("email notifications enabled")
	} else {
		logger.Warn().Msg("email.host_user is empty, email notifications are disabled")
	}
	if broadcaster := notification.NewBroadcaster(appStore, cfg.Push, &logger); broadcaster != nil {
		opts.Broadcaster = broadcaster
		opts.VAPIDPublicKey = cfg.Push.PublicKey
		logger.Info().Msg("organizer push alerts enabled")
	}

	router := api.NewRouter(cfg, appStore, opts)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe")
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info().Msg("shutdown signal received, stopping server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server Shutdown")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info().Msg("server gracefully stopped")
}
