package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

// =====================================================
// ARTICLE REPOSITORY INTERFACE
// =====================================================

// Query selects documents. Filter comes from the access policy and is always applied.
type Query struct {
	Filter             access.Filter
	Status             *model.Status
	Type               *model.ContentType
	ModerationStatuses []model.ModerationStatus
	ScheduledBefore    *time.Time // status = scheduled AND scheduled_publish_date <= value
	Sort               string
	Page               int
	Limit              int
}

type ArticleRepository interface {
	// ========================================
	// READ
	// ========================================

	// Find lists documents matching q, returns the page and the total count
	Find(ctx context.Context, q Query) ([]*model.Article, int, error)

	// FindByID returns model.ErrNotFound when the document does not exist or is outside f
	FindByID(ctx context.Context, id uuid.UUID, f access.Filter) (*model.Article, error)

	// FindBySlug is the public lookup path
	FindBySlug(ctx context.Context, slug string, f access.Filter) (*model.Article, error)

	// ========================================
	// WRITE (document + version snapshot in one transaction)
	// ========================================

	// Create stores a and its first version snapshot
	Create(ctx context.Context, a *model.Article) error

	// Update stores a if the stored version still equals expectedVersion and the
	// row is inside f. a.Version must already be the new version number.
	Update(ctx context.Context, a *model.Article, expectedVersion int, f access.Filter) error

	// Delete removes the document; versions are kept
	Delete(ctx context.Context, id uuid.UUID, f access.Filter) error

	// ========================================
	// VERSIONS
	// ========================================

	// FindVersions returns all snapshots of a document, newest first
	FindVersions(ctx context.Context, articleID uuid.UUID) ([]*model.Version, error)

	// FindVersion returns one snapshot; it must belong to articleID
	FindVersion(ctx context.Context, articleID, versionID uuid.UUID) (*model.Version, error)
}
