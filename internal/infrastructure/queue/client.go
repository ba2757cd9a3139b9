package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/shared"
)

// TaskEnqueuer là phần asynq.Client mà producer cần
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ArticleProducer enqueues article tasks on asynq
type ArticleProducer struct {
	client TaskEnqueuer
}

func NewArticleProducer(client TaskEnqueuer) *ArticleProducer {
	return &ArticleProducer{client: client}
}

// EnqueueModeration schedules one moderation scan. A scan already pending for
// the same document is not duplicated.
func (p *ArticleProducer) EnqueueModeration(ctx context.Context, articleID uuid.UUID) error {
	payload, err := json.Marshal(shared.ModerateArticlePayload{ArticleID: articleID})
	if err != nil {
		return fmt.Errorf("marshal moderation payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeModerateArticle, payload)
	_, err = p.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.TaskID("moderate:"+articleID.String()),
	)
	if err != nil && err != asynq.ErrTaskIDConflict {
		return fmt.Errorf("enqueue moderation %s: %w", articleID, err)
	}
	return nil
}

// EnqueuePublishNotice hands the summary to the notification worker
func (p *ArticleProducer) EnqueuePublishNotice(ctx context.Context, summary model.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal publish notice: %w", err)
	}

	task := asynq.NewTask(shared.TypeNotifyPublish, payload)
	if _, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	); err != nil {
		return fmt.Errorf("enqueue publish notice %s: %w", summary.ID, err)
	}
	return nil
}
