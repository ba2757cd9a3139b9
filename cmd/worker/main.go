package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"newsroom-backend/pkg/container"
	"newsroom-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] Invalid configuration")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	// Initialize container
	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	// Perform health checks before consuming tasks
	health, err := startServices(c)
	if err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	// Initialize handlers + Asynq server
	handlers := initializeHandlers(c)
	srv := setupAsynqServer(c, handlers)

	// Setup scheduler
	scheduler := setupScheduler(c)

	// Wait for shutdown signal
	waitForShutdown(srv, scheduler, health)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler, health *healthServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	scheduler.Shutdown()
	srv.Shutdown()
	health.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
