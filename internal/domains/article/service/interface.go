package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

// =====================================================
// ARTICLE SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// READ (session or API gate)
	// ========================================

	// GetArticle returns the document projected for the caller
	GetArticle(ctx context.Context, p *access.Principal, creds access.Credentials, id uuid.UUID) (*ArticleView, error)

	// GetArticleBySlug is the public lookup path, cached for gate readers
	GetArticleBySlug(ctx context.Context, p *access.Principal, creds access.Credentials, slug string) (*ArticleView, error)

	// ListArticles lists documents visible to the caller
	ListArticles(ctx context.Context, p *access.Principal, creds access.Credentials, req model.ListArticlesRequest) (*model.ListArticlesResponse, error)

	// ========================================
	// MUTATIONS (full pipeline)
	// ========================================

	CreateArticle(ctx context.Context, p *access.Principal, req model.CreateArticleRequest) (*model.Article, error)
	UpdateArticle(ctx context.Context, p *access.Principal, id uuid.UUID, req model.UpdateArticleRequest) (*model.Article, error)
	DeleteArticle(ctx context.Context, p *access.Principal, id uuid.UUID) error

	// ========================================
	// HISTORY
	// ========================================

	ListVersions(ctx context.Context, p *access.Principal, id uuid.UUID) ([]*model.Version, error)
	Rollback(ctx context.Context, p *access.Principal, id uuid.UUID, req model.RollbackRequest) (*model.Article, error)
	ExportAudit(ctx context.Context, p *access.Principal, id uuid.UUID) (*excelize.File, error)

	// ========================================
	// INTERNAL PROCESSES (system principal)
	// ========================================

	// SweepScheduled publishes every scheduled document whose date has passed
	SweepScheduled(ctx context.Context, limit int) (*model.SweepResult, error)

	// DrainModeration scans queued and failed documents, one at a time
	DrainModeration(ctx context.Context, limit int) (*model.DrainResult, error)

	// ModerateOne scans a single document and writes the result back
	ModerateOne(ctx context.Context, id uuid.UUID) (*model.Article, error)
}

// ModerationEnqueuer hands a document to the async moderation queue
type ModerationEnqueuer interface {
	EnqueueModeration(ctx context.Context, articleID uuid.UUID) error
}

// PublishNotifier is the best-effort outbound channel. Implementations must not block.
type PublishNotifier interface {
	NotifyPublish(ctx context.Context, summary model.Summary)
}

// Config - service tuning, copied from config.Config at wiring time
type Config struct {
	InlineModeration bool
	SweepBatch       int
	DrainBatch       int
	CacheTTL         time.Duration
	// Now is the clock; time.Now when nil
	Now func() time.Time
}

// ArticleView is a document plus the projection the caller is entitled to
type ArticleView struct {
	Article *model.Article
	Public  bool
}

// Render returns the value to serialise
func (v *ArticleView) Render() interface{} {
	if v.Public {
		return v.Article.ToPublic()
	}
	return v.Article
}
