package main

import (
	"github.com/hibiken/asynq"

	articleJob "newsroom-backend/internal/domains/article/job"
	"newsroom-backend/internal/infrastructure/email"
	"newsroom-backend/internal/shared"
	"newsroom-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Moderation
	moderate *articleJob.ModerateHandler
	drain    *articleJob.DrainModerationHandler

	// Publishing
	sweep         *articleJob.SweepScheduledHandler
	notifyPublish *articleJob.NotifyPublishHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	cfg := c.Config
	emailSvc := email.NewSMTPEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.From,
	)

	return &HandlerRegistry{
		moderate:      articleJob.NewModerateHandler(c.ArticleService),
		drain:         articleJob.NewDrainModerationHandler(c.ArticleService),
		sweep:         articleJob.NewSweepScheduledHandler(c.ArticleService),
		notifyPublish: articleJob.NewNotifyPublishHandler(emailSvc, cfg.Notify.Recipients),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeModerateArticle, h.moderate.ProcessTask)
	mux.HandleFunc(shared.TypeDrainModeration, h.drain.ProcessTask)
	mux.HandleFunc(shared.TypeSweepScheduled, h.sweep.ProcessTask)
	mux.HandleFunc(shared.TypeNotifyPublish, h.notifyPublish.ProcessTask)
}
