package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/infrastructure/email"
	"newsroom-backend/internal/shared/utils"
)

// NotifyPublishHandler emails the publish notice to the configured recipients
type NotifyPublishHandler struct {
	emailService email.EmailService
	recipients   []string
}

func NewNotifyPublishHandler(emailService email.EmailService, recipients []string) *NotifyPublishHandler {
	return &NotifyPublishHandler{
		emailService: emailService,
		recipients:   recipients,
	}
}

func (h *NotifyPublishHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var summary model.Summary
	if err := utils.UnmarshalTask(t, &summary); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if len(h.recipients) == 0 {
		log.Debug().Str("article_id", summary.ID.String()).Msg("No publish notice recipients configured")
		return nil
	}

	err := h.emailService.SendPublishNotice(ctx, h.recipients, email.PublishNoticeData{
		ArticleID:     summary.ID,
		Type:          string(summary.Type),
		Title:         summary.Title,
		Slug:          summary.Slug,
		PublishedDate: summary.PublishedDate,
		PublishedBy:   summary.PublishedBy,
	})
	if err != nil {
		// Lỗi mạng, SMTP: asynq retry lại
		return fmt.Errorf("send publish notice: %w", err)
	}

	log.Info().
		Str("article_id", summary.ID.String()).
		Int("recipients", len(h.recipients)).
		Msg("Publish notice sent")
	return nil
}
