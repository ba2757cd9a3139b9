package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/config"
)

// loadConfig loads shared config and checks what the worker needs
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if !cfg.Jobs.Enabled {
		return nil, fmt.Errorf("worker requires JOBS_ENABLED=true")
	}
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("[Config] STORAGE_DRIVER=memory: worker state is not shared with the API process")
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Str("smtp", cfg.Email.SMTPHost+":"+cfg.Email.SMTPPort).
		Str("sweep_cron", cfg.Jobs.SweepCron).
		Str("drain_cron", cfg.Jobs.DrainCron).
		Msg("[Config] Loaded")

	return cfg, nil
}
