package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/domains/article/service"
	"newsroom-backend/internal/shared"
	"newsroom-backend/internal/shared/utils"
)

// ============================================
// Moderate one document
// ============================================

type ModerateHandler struct {
	articleService service.ServiceInterface
}

func NewModerateHandler(articleService service.ServiceInterface) *ModerateHandler {
	return &ModerateHandler{
		articleService: articleService,
	}
}

func (h *ModerateHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ModerateArticlePayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	saved, err := h.articleService.ModerateOne(ctx, payload.ArticleID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		// đã bị xoá trước khi worker chạy
		log.Info().Str("article_id", payload.ArticleID.String()).Msg("Moderation target no longer exists")
		return nil
	case errors.Is(err, model.ErrConflict):
		// ai đó vừa sửa bài, retry sẽ đọc version mới
		return fmt.Errorf("moderate %s: %w", payload.ArticleID, err)
	case err != nil:
		log.Error().Err(err).Str("article_id", payload.ArticleID.String()).Msg("Moderation failed")
		return fmt.Errorf("moderate %s: %w", payload.ArticleID, err)
	}

	log.Info().
		Str("article_id", saved.ID.String()).
		Str("moderation_status", string(saved.ModerationStatus)).
		Str("status", string(saved.Status)).
		Msg("Moderation task done")
	return nil
}

// ============================================
// Drain the moderation queue (cron)
// ============================================

type DrainModerationHandler struct {
	articleService service.ServiceInterface
}

func NewDrainModerationHandler(articleService service.ServiceInterface) *DrainModerationHandler {
	return &DrainModerationHandler{
		articleService: articleService,
	}
}

func (h *DrainModerationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.DrainModerationPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	res, err := h.articleService.DrainModeration(ctx, payload.Limit)
	if err != nil {
		return fmt.Errorf("drain moderation: %w", err)
	}

	if res.Scanned+res.Failed > 0 {
		log.Info().
			Int("scanned", res.Scanned).
			Int("flagged", res.Flagged).
			Int("failed", res.Failed).
			Msg("Moderation queue drained")
	}
	return nil
}
