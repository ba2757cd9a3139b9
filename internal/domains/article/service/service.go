package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/domains/article/moderation"
	"newsroom-backend/internal/domains/article/repository"
	"newsroom-backend/internal/shared/utils"
	"newsroom-backend/pkg/cache"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type ArticleService struct {
	repo     repository.ArticleRepository
	policy   access.CollectionPolicy
	fields   access.FieldOverlay
	engine   *moderation.Engine
	scorer   moderation.Scorer
	enqueuer ModerationEnqueuer // nil: documents stay unscanned until drained
	notifier PublishNotifier    // nil: no publish notifications
	cache    cache.Cache        // nil: public reads hit the repository
	cfg      Config
}

func NewArticleService(
	repo repository.ArticleRepository,
	policy access.CollectionPolicy,
	engine *moderation.Engine,
	scorer moderation.Scorer,
	enqueuer ModerationEnqueuer,
	notifier PublishNotifier,
	cache cache.Cache,
	cfg Config,
) *ArticleService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = model.DefaultSweepBatch
	}
	if cfg.DrainBatch <= 0 {
		cfg.DrainBatch = model.DefaultDrainBatch
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ArticleService{
		repo:     repo,
		policy:   policy,
		fields:   access.ContentFieldOverlay(),
		engine:   engine,
		scorer:   scorer,
		enqueuer: enqueuer,
		notifier: notifier,
		cache:    cache,
		cfg:      cfg,
	}
}

var _ ServiceInterface = (*ArticleService)(nil)

func (s *ArticleService) now() time.Time {
	return s.cfg.Now().UTC()
}

// deny hides the document from callers without a session
func deny(p *access.Principal, msg string) error {
	if !p.HasSession() {
		return model.NewNotFoundError()
	}
	return model.NewForbiddenError(msg)
}

// =====================================================
// READ
// =====================================================

func (s *ArticleService) GetArticle(
	ctx context.Context,
	p *access.Principal,
	creds access.Credentials,
	id uuid.UUID,
) (*ArticleView, error) {
	decision := s.policy.Read(p, creds)
	if !decision.Allowed {
		return nil, model.NewNotFoundError()
	}

	a, err := s.repo.FindByID(ctx, id, decision.Filter)
	if err != nil {
		return nil, err
	}
	return &ArticleView{Article: a, Public: decision.Projection == access.ProjectionPublic}, nil
}

func (s *ArticleService) GetArticleBySlug(
	ctx context.Context,
	p *access.Principal,
	creds access.Credentials,
	slug string,
) (*ArticleView, error) {
	decision := s.policy.Read(p, creds)
	if !decision.Allowed {
		return nil, model.NewNotFoundError()
	}
	public := decision.Projection == access.ProjectionPublic

	// Step 1: cache (public projection only, never the editor view)
	key := cache.ArticleSlugKey(slug)
	if public && s.cache != nil {
		var cached model.Article
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("slug", slug).Msg("article cache read failed")
		}
		if found {
			return &ArticleView{Article: &cached, Public: true}, nil
		}
	}

	// Step 2: repository
	a, err := s.repo.FindBySlug(ctx, slug, decision.Filter)
	if err != nil {
		return nil, err
	}

	if public && s.cache != nil {
		if err := s.cache.Set(ctx, key, a, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("slug", slug).Msg("article cache write failed")
		}
	}
	return &ArticleView{Article: a, Public: public}, nil
}

func (s *ArticleService) ListArticles(
	ctx context.Context,
	p *access.Principal,
	creds access.Credentials,
	req model.ListArticlesRequest,
) (*model.ListArticlesResponse, error) {
	decision := s.policy.Read(p, creds)
	if !decision.Allowed {
		return nil, model.NewNotFoundError()
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	filter := decision.Filter
	if req.Mine && p.HasSession() {
		id := p.ID
		filter.CreatedBy = &id
	}

	list, total, err := s.repo.Find(ctx, repository.Query{
		Filter: filter,
		Status: req.Status,
		Type:   req.Type,
		Sort:   req.Sort,
		Page:   req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	var items interface{} = list
	if decision.Projection == access.ProjectionPublic {
		public := make([]*model.PublicArticle, 0, len(list))
		for _, a := range list {
			public = append(public, a.ToPublic())
		}
		items = public
	}

	return &model.ListArticlesResponse{
		Items:      items,
		Pagination: model.NewPaginationMeta(req.Page, req.Limit, total),
	}, nil
}

// =====================================================
// CREATE
// =====================================================

func (s *ArticleService) CreateArticle(
	ctx context.Context,
	p *access.Principal,
	req model.CreateArticleRequest,
) (*model.Article, error) {
	// Step 1: Authorize
	if !s.policy.Create(p).Allowed {
		return nil, deny(p, "Not allowed to create content")
	}

	// Step 2: Validate request + payload
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}
	body, err := model.DecodeBody(req.Type, req.Body)
	if err != nil {
		return nil, model.NewValidationError(err)
	}

	slugSource := req.Title
	if req.Slug != nil {
		slugSource = *req.Slug
	}
	slug := utils.GenerateSlug(slugSource)
	if slug == "" {
		return nil, model.NewValidationError(errors.New("slug: cannot be derived, use letters or digits"))
	}

	// Step 3: Build document
	now := s.now()
	status := model.StatusDraft
	if req.Status != nil {
		status = *req.Status
	}
	a := &model.Article{
		ID:                   uuid.New(),
		Type:                 req.Type,
		Title:                strings.TrimSpace(req.Title),
		Slug:                 slug,
		Body:                 body,
		Badges:               append([]string{}, req.Badges...),
		HeroImage:            nonEmpty(req.HeroImage),
		Sponsored:            req.Sponsored,
		SponsorDisclosure:    strings.TrimSpace(req.SponsorDisclosure),
		CreatedBy:            p.ID,
		UpdatedBy:            p.ID,
		Status:               status,
		ScheduledPublishDate: req.ScheduledPublishDate,
		EditorialNotes:       req.EditorialNotes,
		ModerationStatus:     model.ModerationUnscanned,
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if req.Checklist != nil {
		a.Checklist = *req.Checklist
	}

	// Step 4: Field overlay, measured against an empty draft
	written := createdFields(a)
	if denied := s.fields.FirstDenied(p, written); denied != "" {
		return nil, model.NewFieldForbiddenError(denied)
	}

	// Step 5: before-change chain
	plan, err := s.beforeChange(ctx, change{
		principal: p,
		next:      a,
		now:       now,
	})
	if err != nil {
		return nil, err
	}

	// Step 6: Persist (document + first version)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	log.Info().
		Str("article_id", a.ID.String()).
		Str("status", a.Status.String()).
		Str("by", p.ID.String()).
		Msg("article created")

	// Step 7: after-change chain
	s.afterChange(ctx, nil, a, plan)
	return a, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *ArticleService) UpdateArticle(
	ctx context.Context,
	p *access.Principal,
	id uuid.UUID,
	req model.UpdateArticleRequest,
) (*model.Article, error) {
	return s.save(ctx, p, id, req, saveOptions{})
}

// saveOptions carries inputs only internal callers may supply
type saveOptions struct {
	scan   *moderation.Scan
	reason string
}

// save is the update pipeline shared by handlers, rollback, the sweeper and the drain
func (s *ArticleService) save(
	ctx context.Context,
	p *access.Principal,
	id uuid.UUID,
	req model.UpdateArticleRequest,
	opts saveOptions,
) (*model.Article, error) {
	// Step 1: Authorize; creators are scoped by the query itself
	decision := s.policy.Update(p)
	if !decision.Allowed {
		return nil, deny(p, "Not allowed to update content")
	}

	// Step 2: Validate
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 3: Load
	prev, err := s.repo.FindByID(ctx, id, decision.Filter)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != prev.Version {
		return nil, model.NewVersionConflictError()
	}

	// Step 4: Merge + field overlay
	next := prev.Clone()
	written, err := mergeUpdate(next, req)
	if err != nil {
		return nil, err
	}
	if denied := s.fields.FirstDenied(p, written); denied != "" {
		return nil, model.NewFieldForbiddenError(denied)
	}
	if meta := req.RollbackMeta(); meta != nil {
		next.Rollback = meta
	}

	// Step 5: before-change chain
	now := s.now()
	next.UpdatedBy = principalID(p)
	reason := opts.reason
	if reason == "" {
		reason = transitionReason(prev, next)
	}
	plan, err := s.beforeChange(ctx, change{
		principal: p,
		prev:      prev,
		next:      next,
		scan:      opts.scan,
		reason:    reason,
		now:       now,
	})
	if err != nil {
		return nil, err
	}

	// lastUpdated only moves when the document really changed
	if prev.SameContent(next) {
		next.UpdatedAt = prev.UpdatedAt
	} else {
		next.UpdatedAt = now
	}
	next.Version = prev.Version + 1

	// Step 6: Persist, guarded by the version we read
	if err := s.repo.Update(ctx, next, prev.Version, decision.Filter); err != nil {
		return nil, err
	}

	if plan.workflow.Changed || plan.moderation.Overridden {
		log.Info().
			Str("article_id", next.ID.String()).
			Str("from", prev.Status.String()).
			Str("to", next.Status.String()).
			Str("by", principalID(p).String()).
			Msg("article status changed")
	}

	// Step 7: after-change chain
	s.afterChange(ctx, prev, next, plan)
	return next, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *ArticleService) DeleteArticle(ctx context.Context, p *access.Principal, id uuid.UUID) error {
	decision := s.policy.Delete(p)
	if !decision.Allowed {
		return deny(p, "Not allowed to delete content")
	}

	a, err := s.repo.FindByID(ctx, id, decision.Filter)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, decision.Filter); err != nil {
		return err
	}

	s.invalidate(ctx, a.Slug)
	log.Info().Str("article_id", id.String()).Str("by", p.ID.String()).Msg("article deleted")
	return nil
}

// =====================================================
// VERSIONS
// =====================================================

// ListVersions is visible to whoever may update the document
func (s *ArticleService) ListVersions(ctx context.Context, p *access.Principal, id uuid.UUID) ([]*model.Version, error) {
	decision := s.policy.Update(p)
	if !decision.Allowed {
		return nil, deny(p, "Not allowed to view history")
	}
	if _, err := s.repo.FindByID(ctx, id, decision.Filter); err != nil {
		return nil, err
	}

	versions, err := s.repo.FindVersions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// =====================================================
// HELPERS
// =====================================================

func principalID(p *access.Principal) uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.ID
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// transitionReason picks the text recorded on the workflow entry
func transitionReason(prev, next *model.Article) string {
	switch {
	case prev.Status == model.StatusPublished && next.Status != model.StatusPublished:
		return next.UnpublishReason
	case next.Status == model.StatusNeedsCorrection:
		return next.EditorialNotes
	}
	return ""
}
