package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	infraCache "newsroom-backend/internal/infrastructure/cache"
	"newsroom-backend/pkg/container"
)

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// healthServer serves /health and /ready for the worker process
type healthServer struct {
	srv    *http.Server
	redis  *infraCache.RedisClient
	checks []healthCheck
}

// startServices performs startup health checks and starts the health endpoint
func startServices(c *container.Container) (*healthServer, error) {
	log.Info().Msg("[Startup] Newsroom worker starting...")

	redisClient := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	checks := []healthCheck{
		{name: "Redis Connection", fn: redisClient.HealthCheck},
	}
	if c.DB != nil {
		checks = append(checks, healthCheck{name: "PostgreSQL", fn: c.DB.HealthCheck})
	}

	h := &healthServer{redis: redisClient, checks: checks}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.checkAll(ctx); err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	h.start(c.Config.Jobs.WorkerHealth)
	return h, nil
}

// checkAll runs all health checks, stopping at the first failure
func (h *healthServer) checkAll(ctx context.Context) error {
	for _, check := range h.checks {
		if err := check.fn(ctx); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("[Startup] Check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("[Startup] OK")
	}
	return nil
}

func (h *healthServer) start(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/ready", h.handleReady)

	h.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
		if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("[Health] Failed to start")
		}
	}()
}

// handleHealth: liveness, process is up
func (h *healthServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "newsroom-worker"})
}

// handleReady: readiness, dependencies reachable
func (h *healthServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.checkAll(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "NOT_READY", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "READY"})
}

func (h *healthServer) Shutdown() {
	if h == nil {
		return
	}
	if h.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.srv.Shutdown(ctx)
	}
	if h.redis != nil {
		_ = h.redis.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
