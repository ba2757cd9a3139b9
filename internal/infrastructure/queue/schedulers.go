package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"newsroom-backend/internal/config"
	"newsroom-backend/internal/shared"
	"newsroom-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
	drainCap  int
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig, drainBatch int) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.WarnLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
		drainCap:  drainBatch,
	}
}

// RegisterArticleJobs registers the periodic sweep and moderation drain
func (s *Scheduler) RegisterArticleJobs() error {
	if err := s.registerSweepScheduledJob(); err != nil {
		return err
	}

	if err := s.registerDrainModerationJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Sweep scheduled documents (every minute)
// ================================================
func (s *Scheduler) registerSweepScheduledJob() error {
	payload, err := json.Marshal(shared.SweepScheduledPayload{Limit: s.jobConfig.SweepBatch})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepScheduled, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.SweepCron,
		task,
		asynq.Queue(shared.QueueHigh),
		asynq.MaxRetry(0), // lần chạy sau sẽ nhặt lại
		asynq.Timeout(time.Minute),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepScheduled job", err)
		return err
	}

	logger.Info("✓ Registered SweepScheduled", map[string]interface{}{"cron": s.jobConfig.SweepCron})
	return nil
}

// ================================================
// JOB 2: Drain moderation queue
// ================================================
// Picks up documents left queued (enqueue failed, worker down) or in error.
func (s *Scheduler) registerDrainModerationJob() error {
	payload, err := json.Marshal(shared.DrainModerationPayload{Limit: s.drainCap})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeDrainModeration, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.DrainCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(0),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register DrainModeration job", err)
		return err
	}

	logger.Info("✓ Registered DrainModeration", map[string]interface{}{"cron": s.jobConfig.DrainCron})
	return nil
}

// Start starts the scheduler (blocking)
func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

// Shutdown stops the scheduler
func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
