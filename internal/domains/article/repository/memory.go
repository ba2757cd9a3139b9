package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

// =====================================================
// IN-MEMORY REPOSITORY (STORAGE_DRIVER=memory, tests)
// =====================================================

type memoryArticleRepository struct {
	mu       sync.RWMutex
	articles map[uuid.UUID]*model.Article
	versions map[uuid.UUID][]*model.Version
}

func NewMemoryArticleRepository() ArticleRepository {
	return &memoryArticleRepository{
		articles: make(map[uuid.UUID]*model.Article),
		versions: make(map[uuid.UUID][]*model.Version),
	}
}

func matchesFilter(a *model.Article, f access.Filter) bool {
	if f.CreatedBy != nil && a.CreatedBy != *f.CreatedBy {
		return false
	}
	if f.PublishedOnly && a.Status != model.StatusPublished {
		return false
	}
	return true
}

func matchesQuery(a *model.Article, q Query) bool {
	if !matchesFilter(a, q.Filter) {
		return false
	}
	if q.Status != nil && a.Status != *q.Status {
		return false
	}
	if q.Type != nil && a.Type != *q.Type {
		return false
	}
	if len(q.ModerationStatuses) > 0 {
		found := false
		for _, s := range q.ModerationStatuses {
			if a.ModerationStatus == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.ScheduledBefore != nil && !a.DueForPublish(*q.ScheduledBefore) {
		return false
	}
	return true
}

func (r *memoryArticleRepository) Find(ctx context.Context, q Query) ([]*model.Article, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*model.Article, 0)
	for _, a := range r.articles {
		if matchesQuery(a, q) {
			matched = append(matched, a)
		}
	}
	sortArticles(matched, q.Sort)

	total := len(matched)
	limit := q.Limit
	if limit <= 0 {
		limit = model.DefaultPageLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	out := make([]*model.Article, 0, end-start)
	for _, a := range matched[start:end] {
		out = append(out, a.Clone())
	}
	return out, total, nil
}

func sortArticles(list []*model.Article, sortKey string) {
	timeOf := func(a *model.Article) time.Time {
		switch sortKey {
		case "published_date", "-published_date":
			if a.PublishedDate != nil {
				return *a.PublishedDate
			}
			return time.Time{}
		case "created_at", "-created_at":
			return a.CreatedAt
		case "scheduled":
			if a.ScheduledPublishDate != nil {
				return *a.ScheduledPublishDate
			}
			return time.Time{}
		}
		return a.UpdatedAt
	}
	asc := sortKey == "updated_at" || sortKey == "published_date" || sortKey == "created_at" || sortKey == "scheduled"

	sort.SliceStable(list, func(i, j int) bool {
		ti, tj := timeOf(list[i]), timeOf(list[j])
		if ti.Equal(tj) {
			return list[i].ID.String() < list[j].ID.String()
		}
		if asc {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})
}

func (r *memoryArticleRepository) FindByID(ctx context.Context, id uuid.UUID, f access.Filter) (*model.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.articles[id]
	if !ok || !matchesFilter(a, f) {
		return nil, model.NewNotFoundError()
	}
	return a.Clone(), nil
}

func (r *memoryArticleRepository) FindBySlug(ctx context.Context, slug string, f access.Filter) (*model.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.articles {
		if a.Slug == slug && matchesFilter(a, f) {
			return a.Clone(), nil
		}
	}
	return nil, model.NewNotFoundError()
}

func (r *memoryArticleRepository) slugTaken(slug string, except uuid.UUID) bool {
	for id, a := range r.articles {
		if id != except && a.Slug == slug {
			return true
		}
	}
	return false
}

func (r *memoryArticleRepository) Create(ctx context.Context, a *model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[a.ID]; exists {
		return model.NewVersionConflictError()
	}
	if r.slugTaken(a.Slug, a.ID) {
		return model.NewSlugConflictError(a.Slug)
	}
	r.articles[a.ID] = a.Clone()
	r.appendVersion(a)
	return nil
}

func (r *memoryArticleRepository) Update(ctx context.Context, a *model.Article, expectedVersion int, f access.Filter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.articles[a.ID]
	if !ok || !matchesFilter(stored, f) {
		return model.NewNotFoundError()
	}
	if stored.Version != expectedVersion {
		return model.NewVersionConflictError()
	}
	if r.slugTaken(a.Slug, a.ID) {
		return model.NewSlugConflictError(a.Slug)
	}
	r.articles[a.ID] = a.Clone()
	r.appendVersion(a)
	return nil
}

func (r *memoryArticleRepository) appendVersion(a *model.Article) {
	r.versions[a.ID] = append(r.versions[a.ID], &model.Version{
		ID:        uuid.New(),
		ArticleID: a.ID,
		Version:   a.Version,
		Snapshot:  a.Clone(),
		CreatedBy: a.UpdatedBy,
		CreatedAt: time.Now().UTC(),
	})
}

func (r *memoryArticleRepository) Delete(ctx context.Context, id uuid.UUID, f access.Filter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.articles[id]
	if !ok || !matchesFilter(a, f) {
		return model.NewNotFoundError()
	}
	delete(r.articles, id)
	return nil
}

func (r *memoryArticleRepository) FindVersions(ctx context.Context, articleID uuid.UUID) ([]*model.Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.versions[articleID]
	out := make([]*model.Version, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		v := *list[i]
		v.Snapshot = list[i].Snapshot.Clone()
		out = append(out, &v)
	}
	return out, nil
}

func (r *memoryArticleRepository) FindVersion(ctx context.Context, articleID, versionID uuid.UUID) (*model.Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.versions[articleID] {
		if v.ID == versionID {
			cp := *v
			cp.Snapshot = v.Snapshot.Clone()
			return &cp, nil
		}
	}
	return nil, model.NewVersionNotFoundError()
}
