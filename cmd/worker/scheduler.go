package main

import (
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/infrastructure/queue"
	"newsroom-backend/pkg/container"
)

// asynqScheduler wraps queue.Scheduler with logging
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the article cron jobs and starts the scheduler
func setupScheduler(c *container.Container) *asynqScheduler {
	cfg := c.Config
	scheduler := queue.NewScheduler(container.RedisOpt(cfg), cfg.Jobs, cfg.Moderation.DrainBatch)

	if err := scheduler.RegisterArticleJobs(); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
