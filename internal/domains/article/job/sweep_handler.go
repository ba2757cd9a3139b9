package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/article/service"
	"newsroom-backend/internal/shared"
	"newsroom-backend/internal/shared/utils"
)

type SweepScheduledHandler struct {
	articleService service.ServiceInterface
}

func NewSweepScheduledHandler(articleService service.ServiceInterface) *SweepScheduledHandler {
	return &SweepScheduledHandler{
		articleService: articleService,
	}
}

func (h *SweepScheduledHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.SweepScheduledPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	res, err := h.articleService.SweepScheduled(ctx, payload.Limit)
	if err != nil {
		return fmt.Errorf("sweep scheduled: %w", err)
	}

	if res.Checked > 0 {
		log.Info().
			Int("checked", res.Checked).
			Int("published", len(res.Published)).
			Int("failed", res.Failed).
			Msg("Scheduled sweep finished")
	}
	return nil
}
