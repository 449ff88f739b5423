package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/accounthub-be/internal/api"
	"github.com/isdelr/accounthub-be/internal/config"
	"github.com/isdelr/accounthub-be/internal/database"
	"github.com/isdelr/accounthub-be/internal/logger"
	"github.com/isdelr/accounthub-be/internal/monitoring"
	"github.com/isdelr/accounthub-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, cfg.SessionTTL)
	eventService := services.NewEventService(db)

	// Set up and run the background session sweeper
	sweeper, err := monitoring.NewSessionSweeper(sessionService, eventService, cfg.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("Invalid session sweep schedule")
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(userService, sessionService, eventService, cfg.FrontendOrigin, cfg.AdminUsername, cfg.SessionTTL)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
