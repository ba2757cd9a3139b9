package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

func newDoc(slug string, owner uuid.UUID, status model.Status) *model.Article {
	now := time.Now().UTC()
	return &model.Article{
		ID:        uuid.New(),
		Type:      model.TypeArticle,
		Title:     slug,
		Slug:      slug,
		Body:      model.ArticleBody{Content: "c"},
		Status:    status,
		CreatedBy: owner,
		UpdatedBy: owner,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryArticleRepository()
	owner := uuid.New()
	doc := newDoc("first", owner, model.StatusDraft)
	require.NoError(t, repo.Create(ctx, doc))

	got, err := repo.FindByID(ctx, doc.ID, access.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "first", got.Slug)

	// stored copy is isolated from the caller
	doc.Title = "mutated"
	got, _ = repo.FindByID(ctx, doc.ID, access.Filter{})
	assert.Equal(t, "first", got.Title)

	err = repo.Create(ctx, newDoc("first", owner, model.StatusDraft))
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestMemoryFilterScopesEveryOperation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryArticleRepository()
	owner, other := uuid.New(), uuid.New()
	doc := newDoc("owned", owner, model.StatusDraft)
	require.NoError(t, repo.Create(ctx, doc))

	_, err := repo.FindByID(ctx, doc.ID, access.Filter{CreatedBy: &other})
	assert.ErrorIs(t, err, model.ErrNotFound)

	next := doc.Clone()
	next.Version = 2
	assert.ErrorIs(t, repo.Update(ctx, next, 1, access.Filter{CreatedBy: &other}), model.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, doc.ID, access.Filter{CreatedBy: &other}), model.ErrNotFound)

	_, err = repo.FindByID(ctx, doc.ID, access.Filter{PublishedOnly: true})
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.Update(ctx, next, 1, access.Filter{CreatedBy: &owner}))
}

func TestMemoryOptimisticConcurrency(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryArticleRepository()
	doc := newDoc("v", uuid.New(), model.StatusDraft)
	require.NoError(t, repo.Create(ctx, doc))

	a := doc.Clone()
	a.Version = 2
	require.NoError(t, repo.Update(ctx, a, 1, access.Filter{}))

	stale := doc.Clone()
	stale.Version = 2
	assert.ErrorIs(t, repo.Update(ctx, stale, 1, access.Filter{}), model.ErrConflict)
}

func TestMemoryVersions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryArticleRepository()
	doc := newDoc("versions", uuid.New(), model.StatusDraft)
	require.NoError(t, repo.Create(ctx, doc))

	next := doc.Clone()
	next.Title = "second"
	next.Version = 2
	require.NoError(t, repo.Update(ctx, next, 1, access.Filter{}))

	versions, err := repo.FindVersions(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, "versions", versions[1].Snapshot.Title)

	v, err := repo.FindVersion(ctx, doc.ID, versions[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Version)

	_, err = repo.FindVersion(ctx, uuid.New(), versions[1].ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryFindScheduledBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryArticleRepository()
	now := time.Now()
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	due := newDoc("due", uuid.New(), model.StatusScheduled)
	due.ScheduledPublishDate = &past
	later := newDoc("later", uuid.New(), model.StatusScheduled)
	later.ScheduledPublishDate = &future
	require.NoError(t, repo.Create(ctx, due))
	require.NoError(t, repo.Create(ctx, later))
	require.NoError(t, repo.Create(ctx, newDoc("draft", uuid.New(), model.StatusDraft)))

	list, total, err := repo.Find(ctx, Query{ScheduledBefore: &now})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, due.ID, list[0].ID)
}

func TestMemoryFindPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryArticleRepository()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newDoc(uuid.NewString(), uuid.New(), model.StatusDraft)))
	}
	list, total, err := repo.Find(ctx, Query{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, list, 2)

	list, _, err = repo.Find(ctx, Query{Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, list)
}
