package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moment-admin-backend/internal/config"
	"moment-admin-backend/internal/handlers"
	"moment-admin-backend/internal/repository"
	"moment-admin-backend/internal/services"
	"moment-admin-backend/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	configPath := flag.String("config", defaultConfig, "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	avatars, err := storage.NewAvatarResolver(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create avatar resolver")
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	betaGroupRepo := repository.NewBetaGroupRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)

	// Initialize services
	userService := services.NewUserService(profileRepo, postRepo, friendRepo, groupRepo,
		services.WithAvatarResolver(avatars),
		services.WithGroupedCounts(cfg.Stats.GroupedCounts),
	)
	metricsService := services.NewMetricsService(metricsRepo)
	betaGroupService := services.NewBetaGroupService(betaGroupRepo, avatars)
	adminService := services.NewAdminService(
		cfg.Admin.Password,
		cfg.Admin.PasswordHash,
		cfg.Admin.TokenSecret,
		cfg.Admin.SessionTTL,
	)

	// Setup router
	router := &handlers.Router{
		Users:        handlers.NewUserHandler(userService),
		Metrics:      handlers.NewMetricsHandler(metricsService),
		BetaGroups:   handlers.NewBetaGroupHandler(betaGroupService),
		Admin:        handlers.NewAdminHandler(adminService),
		Health:       handlers.NewHealthHandler(db),
		RequireToken: cfg.Admin.RequireToken,
		Tokens:       adminService,
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Bool("require_token", cfg.Admin.RequireToken).
			Bool("grouped_counts", cfg.Stats.GroupedCounts).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
