package shared

import "github.com/google/uuid"

// Asynq task types
const (
	TypeModerateArticle = "article:moderate"
	TypeDrainModeration = "article:drain_moderation"
	TypeSweepScheduled  = "article:sweep_scheduled"
	TypeNotifyPublish   = "article:notify_publish"
)

// Asynq queues
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ModerateArticlePayload - one document to scan
type ModerateArticlePayload struct {
	ArticleID uuid.UUID `json:"article_id"`
}

// DrainModerationPayload - batch size for one drain run (0 = configured default)
type DrainModerationPayload struct {
	Limit int `json:"limit"`
}

// SweepScheduledPayload - batch size for one sweep run (0 = configured default)
type SweepScheduledPayload struct {
	Limit int `json:"limit"`
}
