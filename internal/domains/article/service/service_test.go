package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/domains/article/moderation"
	"newsroom-backend/internal/domains/article/repository"
)

// =====================================================
// FAKES
// =====================================================

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeScorer struct {
	score float64
	err   error
	calls int
}

func (f *fakeScorer) Scan(ctx context.Context, text string) (moderation.Result, error) {
	f.calls++
	if f.err != nil {
		return moderation.Result{}, f.err
	}
	return moderation.Result{Score: f.score, Message: "fake"}, nil
}

type fakeEnqueuer struct {
	ids []uuid.UUID
	err error
}

func (f *fakeEnqueuer) EnqueueModeration(ctx context.Context, id uuid.UUID) error {
	f.ids = append(f.ids, id)
	return f.err
}

type fakeNotifier struct {
	sent []model.Summary
}

func (f *fakeNotifier) NotifyPublish(ctx context.Context, s model.Summary) {
	f.sent = append(f.sent, s)
}

// memCache is a map-backed cache.Cache
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *memCache) Increment(ctx context.Context, key string) (int64, error)        { return 0, nil }
func (c *memCache) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

// =====================================================
// FIXTURE
// =====================================================

var readerCreds = access.Credentials{APIKey: "key", FetchCode: "code"}

type fixture struct {
	svc      *ArticleService
	repo     repository.ArticleRepository
	clock    *testClock
	scorer   *fakeScorer
	enqueuer *fakeEnqueuer
	notifier *fakeNotifier
	cache    *memCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     repository.NewMemoryArticleRepository(),
		clock:    &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		scorer:   &fakeScorer{},
		notifier: &fakeNotifier{},
		cache:    newMemCache(),
	}
	policy := access.ContentPolicy(access.NewGate(access.GateConfig{
		APIKeys:    []string{readerCreds.APIKey},
		FetchCodes: []string{readerCreds.FetchCode},
	}))
	f.svc = NewArticleService(
		f.repo,
		policy,
		moderation.NewEngine(0.7),
		f.scorer,
		nil,
		f.notifier,
		f.cache,
		Config{Now: f.clock.Now},
	)
	return f
}

// withQueue turns on the async moderation path
func (f *fixture) withQueue() *fixture {
	f.enqueuer = &fakeEnqueuer{}
	f.svc.enqueuer = f.enqueuer
	return f
}

func (f *fixture) inline() *fixture {
	f.svc.cfg.InlineModeration = true
	return f
}

func (f *fixture) load(t *testing.T, id uuid.UUID) *model.Article {
	t.Helper()
	a, err := f.repo.FindByID(context.Background(), id, access.Filter{})
	require.NoError(t, err)
	return a
}

func principal(roles ...access.Role) *access.Principal {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return access.NewUserPrincipal(uuid.New(), "someone@example.com", names)
}

func createReq(title string) model.CreateArticleRequest {
	return model.CreateArticleRequest{
		Type:  model.TypeArticle,
		Title: title,
		Body:  json.RawMessage(`{"content":"Body text"}`),
	}
}

func statusPtr(s model.Status) *model.Status { return &s }
func strPtr(s string) *string                { return &s }

// publish drives a document through review and scheduling; the post-save sweep publishes it
func (f *fixture) publish(t *testing.T, ed *access.Principal, id uuid.UUID) *model.Article {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.UpdateArticle(ctx, ed, id, model.UpdateArticleRequest{Status: statusPtr(model.StatusReview)})
	require.NoError(t, err)

	past := f.clock.Now().Add(-time.Minute)
	_, err = f.svc.UpdateArticle(ctx, ed, id, model.UpdateArticleRequest{
		Status:               statusPtr(model.StatusScheduled),
		ScheduledPublishDate: &past,
	})
	require.NoError(t, err)

	a := f.load(t, id)
	require.Equal(t, model.StatusPublished, a.Status)
	return a
}

// =====================================================
// PIPELINE
// =====================================================

func TestEditorialScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := principal(access.RoleCreator)
	editor := principal(access.RoleEditor)

	// Creator creates, status unset
	doc, err := f.svc.CreateArticle(ctx, creator, createReq("Hello, World!"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, doc.Status)
	assert.Equal(t, creator.ID, doc.CreatedBy)
	assert.Equal(t, 0, doc.WorkflowLog.Len())

	// Creator cannot publish
	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{Status: statusPtr(model.StatusPublished)})
	assert.ErrorIs(t, err, model.ErrForbidden)

	// Editor sends to review
	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Status: statusPtr(model.StatusReview)})
	require.NoError(t, err)
	require.Equal(t, 1, doc.WorkflowLog.Len())
	entry, _ := doc.WorkflowLog.Last()
	assert.Equal(t, model.StatusDraft, entry.From)
	assert.Equal(t, model.StatusReview, entry.To)
	assert.Equal(t, editor.ID, entry.By)

	// Editor schedules in the past, the post-save sweep publishes
	past := f.clock.Now().Add(-time.Hour)
	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{
		Status:               statusPtr(model.StatusScheduled),
		ScheduledPublishDate: &past,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, doc.Status)

	stored := f.load(t, doc.ID)
	assert.Equal(t, model.StatusPublished, stored.Status)
	require.NotNil(t, stored.PublishedDate)
	assert.True(t, stored.PublishedDate.Equal(f.clock.Now()))
	last, _ := stored.WorkflowLog.Last()
	assert.Equal(t, access.SystemID, last.By)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, doc.ID, f.notifier.sent[0].ID)
}

func TestSlugRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := principal(access.RoleCreator)

	doc, err := f.svc.CreateArticle(ctx, creator, createReq("Hello, World!"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world", doc.Slug)

	doc, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{Slug: strPtr("Custom_Slug!!")})
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", doc.Slug)

	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{Slug: strPtr("!!!")})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.CreateArticle(ctx, creator, model.CreateArticleRequest{
		Type: model.TypeArticle, Title: "Another", Slug: strPtr("custom slug"),
		Body: json.RawMessage(`{"content":"x"}`),
	})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestCreateRejectsNonDraftForCreator(t *testing.T) {
	f := newFixture(t)
	req := createReq("Straight to review")
	req.Status = statusPtr(model.StatusReview)

	_, err := f.svc.CreateArticle(context.Background(), principal(access.RoleCreator), req)
	assert.ErrorIs(t, err, model.ErrForbidden)

	// editor may create straight into review: draft -> review is an edge
	doc, err := f.svc.CreateArticle(context.Background(), principal(access.RoleEditor), req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReview, doc.Status)
	assert.Equal(t, 1, doc.WorkflowLog.Len())

	// draft -> published is not
	req.Status = statusPtr(model.StatusPublished)
	req.Title = "Straight to published"
	_, err = f.svc.CreateArticle(context.Background(), principal(access.RoleEditor), req)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestCreateAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateArticle(ctx, nil, createReq("anon"))
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.svc.CreateArticle(ctx, principal(), createReq("no role"))
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.svc.CreateArticle(ctx, principal(access.RoleCreator), model.CreateArticleRequest{
		Type: model.TypeArticle, Title: "bad body", Body: json.RawMessage(`{"content":""}`),
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreatorScopedToOwnDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := principal(access.RoleCreator)
	other := principal(access.RoleCreator)

	doc, err := f.svc.CreateArticle(ctx, owner, createReq("Mine"))
	require.NoError(t, err)

	_, err = f.svc.UpdateArticle(ctx, other, doc.ID, model.UpdateArticleRequest{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteArticle(ctx, other, doc.ID), model.ErrNotFound)

	_, err = f.svc.ListVersions(ctx, other, doc.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, f.svc.DeleteArticle(ctx, owner, doc.ID))
}

func TestFieldOverlay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := principal(access.RoleCreator)

	req := createReq("With badges")
	req.Badges = []string{"exclusive"}
	_, err := f.svc.CreateArticle(ctx, creator, req)
	assert.ErrorIs(t, err, model.ErrForbidden)

	doc, err := f.svc.CreateArticle(ctx, creator, createReq("Plain"))
	require.NoError(t, err)

	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{HeroImage: strPtr("https://cdn/x.jpg")})
	assert.ErrorIs(t, err, model.ErrForbidden)

	// sending the stored value is not a write
	same := model.StatusDraft
	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{Status: &same, Title: strPtr("Plain 2")})
	assert.NoError(t, err)

	_, err = f.svc.UpdateArticle(ctx, principal(access.RoleEditor), doc.ID, model.UpdateArticleRequest{
		Badges: &[]string{"exclusive"},
	})
	assert.NoError(t, err)
}

func TestSponsorship(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := principal(access.RoleCreator)

	req := createReq("Paid post")
	req.Sponsored = true
	_, err := f.svc.CreateArticle(ctx, creator, req)
	assert.ErrorIs(t, err, model.ErrMissingData)

	req.SponsorDisclosure = "Paid for by ACME"
	doc, err := f.svc.CreateArticle(ctx, creator, req)
	require.NoError(t, err)
	assert.True(t, doc.HasBadge(model.SponsoredBadge))

	// unsetting the flag does not remove the badge, and the badge keeps it sponsored
	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{
		Sponsored:         new(bool),
		SponsorDisclosure: strPtr(""),
	})
	assert.ErrorIs(t, err, model.ErrMissingData)
}

func TestDataGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	editor := principal(access.RoleEditor)

	doc, err := f.svc.CreateArticle(ctx, editor, createReq("Gated"))
	require.NoError(t, err)
	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Status: statusPtr(model.StatusReview)})
	require.NoError(t, err)

	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Status: statusPtr(model.StatusScheduled)})
	assert.ErrorIs(t, err, model.ErrMissingData)

	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Status: statusPtr(model.StatusNeedsCorrection)})
	assert.ErrorIs(t, err, model.ErrMissingData)

	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{
		Status:         statusPtr(model.StatusNeedsCorrection),
		EditorialNotes: strPtr("Fix the quotes"),
	})
	require.NoError(t, err)
	entry, _ := doc.WorkflowLog.Last()
	assert.Equal(t, "Fix the quotes", entry.Reason)

	// failed saves leave no trace
	assert.Equal(t, 2, f.load(t, doc.ID).WorkflowLog.Len())
}

func TestPublishedEditsNeedNotesAndUnpublishNeedsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	editor := principal(access.RoleEditor)

	doc, err := f.svc.CreateArticle(ctx, editor, createReq("Live"))
	require.NoError(t, err)
	f.publish(t, editor, doc.ID)

	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Title: strPtr("Live, edited")})
	assert.ErrorIs(t, err, model.ErrMissingData)

	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{
		Title:          strPtr("Live, edited"),
		EditorialNotes: strPtr("Typo in headline"),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Status: statusPtr(model.StatusNeedsCorrection)})
	assert.ErrorIs(t, err, model.ErrMissingData)

	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{
		Status:          statusPtr(model.StatusNeedsCorrection),
		UnpublishReason: strPtr("Legal review"),
	})
	require.NoError(t, err)
	entry, _ := doc.WorkflowLog.Last()
	assert.Equal(t, "Legal review", entry.Reason)
	assert.NotNil(t, doc.PublishedDate, "published date is kept when leaving published")
}

func TestVersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	editor := principal(access.RoleEditor)

	doc, err := f.svc.CreateArticle(ctx, editor, createReq("Versioned"))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)

	v := 1
	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Title: strPtr("Second"), ExpectedVersion: &v})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)

	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Title: strPtr("Stale"), ExpectedVersion: &v})
	assert.ErrorIs(t, err, model.ErrConflict)

	versions, err := f.svc.ListVersions(ctx, editor, doc.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestLastUpdatedOnlyMovesOnChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	editor := principal(access.RoleEditor)

	doc, err := f.svc.CreateArticle(ctx, editor, createReq("Stable"))
	require.NoError(t, err)
	created := doc.UpdatedAt

	f.clock.Advance(time.Hour)
	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Title: strPtr("Stable")})
	require.NoError(t, err)
	assert.True(t, doc.UpdatedAt.Equal(created))
	assert.Equal(t, 2, doc.ModerationLog.Len(), "moderation runs on every save")

	f.clock.Advance(time.Hour)
	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{Title: strPtr("Changed")})
	require.NoError(t, err)
	assert.True(t, doc.UpdatedAt.Equal(f.clock.Now()))
}

// =====================================================
// MODERATION ON THE SAVE PATH
// =====================================================

func TestInlineModerationOverridesReview(t *testing.T) {
	f := newFixture(t).inline()
	ctx := context.Background()
	editor := principal(access.RoleEditor)

	doc, err := f.svc.CreateArticle(ctx, editor, createReq("Calm"))
	require.NoError(t, err)
	assert.Equal(t, model.ModerationScanned, doc.ModerationStatus)

	f.scorer.score = 0.95
	doc, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{
		Title:  strPtr("Angry"),
		Status: statusPtr(model.StatusReview),
	})
	require.NoError(t, err, "an override is not an error")

	assert.Equal(t, model.StatusNeedsCorrection, doc.Status)
	assert.True(t, doc.IsToxic)
	assert.Equal(t, model.ModerationFlagged, doc.ModerationStatus)
	assert.True(t, strings.Contains(doc.EditorialNotes, model.ModerationNoteMark))

	entries := doc.WorkflowLog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, model.StatusReview, entries[0].To)
	assert.Equal(t, model.StatusNeedsCorrection, entries[1].To)
	assert.Equal(t, access.SystemID, entries[1].By)
}

func TestAdminBypassSkipsScorer(t *testing.T) {
	f := newFixture(t).inline()
	f.scorer.score = 0.99
	admin := principal(access.RoleAdmin)

	req := createReq("Admin post")
	req.Status = statusPtr(model.StatusReview)
	doc, err := f.svc.CreateArticle(context.Background(), admin, req)
	require.NoError(t, err)

	assert.Equal(t, 0, f.scorer.calls)
	assert.Equal(t, model.StatusReview, doc.Status)
	last, _ := doc.ModerationLog.Last()
	assert.Equal(t, model.ActionBypassed, last.Action)
}

func TestInlineScanErrorIsRecorded(t *testing.T) {
	f := newFixture(t).inline()
	f.scorer.err = errors.New("classifier down")

	doc, err := f.svc.CreateArticle(context.Background(), principal(access.RoleCreator), createReq("Unlucky"))
	require.NoError(t, err)
	assert.Equal(t, model.ModerationError, doc.ModerationStatus)
	last, _ := doc.ModerationLog.Last()
	assert.Equal(t, model.ActionError, last.Action)
	assert.Equal(t, "classifier down", last.Message)
}

func TestScanErrorSurvivesTextEdit(t *testing.T) {
	f := newFixture(t).inline()
	ctx := context.Background()
	creator := principal(access.RoleCreator)
	f.scorer.err = errors.New("classifier down")

	doc, err := f.svc.CreateArticle(ctx, creator, createReq("First"))
	require.NoError(t, err)
	require.Equal(t, model.ModerationError, doc.ModerationStatus)

	// no inline scan on the edit: only the async path is left
	f.svc.cfg.InlineModeration = false
	f.withQueue()

	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{Title: strPtr("Second")})
	require.NoError(t, err)

	stored := f.load(t, doc.ID)
	assert.Equal(t, "Second", stored.Title)
	assert.Equal(t, model.ModerationError, stored.ModerationStatus)
	assert.Empty(t, f.enqueuer.ids)
}

func TestTextEditRequeuesScannedDocument(t *testing.T) {
	f := newFixture(t).inline()
	ctx := context.Background()
	creator := principal(access.RoleCreator)

	doc, err := f.svc.CreateArticle(ctx, creator, createReq("First"))
	require.NoError(t, err)
	require.Equal(t, model.ModerationScanned, doc.ModerationStatus)

	f.svc.cfg.InlineModeration = false
	f.withQueue()

	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{Title: strPtr("Second")})
	require.NoError(t, err)

	assert.Equal(t, model.ModerationQueued, f.load(t, doc.ID).ModerationStatus)
	assert.Equal(t, []uuid.UUID{doc.ID}, f.enqueuer.ids)
}

func TestCreateEnqueuesModeration(t *testing.T) {
	f := newFixture(t).withQueue()
	ctx := context.Background()
	creator := principal(access.RoleCreator)

	doc, err := f.svc.CreateArticle(ctx, creator, createReq("Queued"))
	require.NoError(t, err)
	assert.Equal(t, model.ModerationQueued, doc.ModerationStatus)
	assert.Equal(t, []uuid.UUID{doc.ID}, f.enqueuer.ids)

	// still queued: not enqueued again
	_, err = f.svc.UpdateArticle(ctx, creator, doc.ID, model.UpdateArticleRequest{EditorialNotes: strPtr("n")})
	require.NoError(t, err)
	assert.Len(t, f.enqueuer.ids, 1)

	// enqueue failure never fails the save
	f.enqueuer.err = errors.New("redis down")
	_, err = f.svc.CreateArticle(ctx, creator, createReq("Queued 2"))
	assert.NoError(t, err)
}

// =====================================================
// READS
// =====================================================

func TestPublicReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	editor := principal(access.RoleEditor)

	doc, err := f.svc.CreateArticle(ctx, editor, createReq("Readable"))
	require.NoError(t, err)

	// no session, no credentials: not found
	_, err = f.svc.GetArticle(ctx, nil, access.Credentials{}, doc.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// gate reader cannot see drafts
	_, err = f.svc.GetArticleBySlug(ctx, nil, readerCreds, doc.Slug)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// session sees everything, full projection
	view, err := f.svc.GetArticle(ctx, principal(access.RoleCreator), access.Credentials{}, doc.ID)
	require.NoError(t, err)
	assert.False(t, view.Public)
	assert.IsType(t, &model.Article{}, view.Render())

	f.publish(t, editor, doc.ID)

	view, err = f.svc.GetArticleBySlug(ctx, nil, readerCreds, doc.Slug)
	require.NoError(t, err)
	assert.True(t, view.Public)
	pub, ok := view.Render().(*model.PublicArticle)
	require.True(t, ok)
	assert.Equal(t, "Readable", pub.Title)

	key := "article:slug:" + doc.Slug
	assert.True(t, f.cache.has(key))

	// cached read decodes the typed payload
	view, err = f.svc.GetArticleBySlug(ctx, nil, readerCreds, doc.Slug)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleBody{Content: "Body text"}, view.Article.Body)

	// any save invalidates
	_, err = f.svc.UpdateArticle(ctx, editor, doc.ID, model.UpdateArticleRequest{
		Title: strPtr("Readable!"), EditorialNotes: strPtr("headline"),
	})
	require.NoError(t, err)
	assert.False(t, f.cache.has(key))
}

func TestListArticles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := principal(access.RoleCreator)
	editor := principal(access.RoleEditor)

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := f.svc.CreateArticle(ctx, creator, createReq(title))
		require.NoError(t, err)
	}
	mine, err := f.svc.CreateArticle(ctx, editor, createReq("Editor's"))
	require.NoError(t, err)
	f.publish(t, editor, mine.ID)

	resp, err := f.svc.ListArticles(ctx, editor, access.Credentials{}, model.ListArticlesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Pagination.Total)

	resp, err = f.svc.ListArticles(ctx, creator, access.Credentials{}, model.ListArticlesRequest{Mine: true})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Pagination.Total)

	resp, err = f.svc.ListArticles(ctx, nil, readerCreds, model.ListArticlesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pagination.Total)
	items, ok := resp.Items.([]*model.PublicArticle)
	require.True(t, ok)
	assert.Equal(t, mine.ID, items[0].ID)

	_, err = f.svc.ListArticles(ctx, nil, access.Credentials{}, model.ListArticlesRequest{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := principal(access.RoleCreator)

	doc, err := f.svc.CreateArticle(ctx, creator, createReq("Doomed"))
	require.NoError(t, err)

	// editor is not staff and does not own it
	assert.ErrorIs(t, f.svc.DeleteArticle(ctx, principal(access.RoleEditor), doc.ID), model.ErrNotFound)
	require.NoError(t, f.svc.DeleteArticle(ctx, principal(access.RoleStaff), doc.ID))

	_, err = f.repo.FindByID(ctx, doc.ID, access.Filter{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestExportAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	editor := principal(access.RoleEditor)

	doc, err := f.svc.CreateArticle(ctx, editor, createReq("Audited"))
	require.NoError(t, err)
	f.publish(t, editor, doc.ID)

	_, err = f.svc.ExportAudit(ctx, principal(access.RoleCreator), doc.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	file, err := f.svc.ExportAudit(ctx, editor, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{sheetWorkflow, sheetModeration}, file.GetSheetList())

	rows, err := file.GetRows(sheetWorkflow)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + draft->review->scheduled->published
	assert.Equal(t, "From", rows[0][1])
	assert.Equal(t, "published", rows[3][2])

	rows, err = file.GetRows(sheetModeration)
	require.NoError(t, err)
	assert.Len(t, rows, 5) // header + one per save
}
