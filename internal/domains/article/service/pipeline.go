package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/domains/article/moderation"
	"newsroom-backend/internal/domains/article/workflow"
	"newsroom-backend/internal/shared/utils"
	"newsroom-backend/pkg/cache"
)

// change is one mutation flowing through the hook chains
type change struct {
	principal *access.Principal
	prev      *model.Article // nil on create
	next      *model.Article
	scan      *moderation.Scan
	reason    string
	now       time.Time
}

// plan is what before-change decided, consumed by after-change
type plan struct {
	workflow   workflow.Result
	moderation moderation.Outcome
	enqueue    bool
	published  bool
}

// =====================================================
// BEFORE-CHANGE CHAIN
// Order is fixed: each hook reads fields set by the previous one.
// =====================================================

func (s *ArticleService) beforeChange(ctx context.Context, c change) (plan, error) {
	next := c.next

	// Step 1: payload
	if next.Body == nil {
		return plan{}, model.NewValidationError(errors.New("body: is required"))
	}
	if err := next.Body.Validate(); err != nil {
		return plan{}, model.NewValidationError(err)
	}

	// Step 2: sponsorship
	if err := applySponsorship(next); err != nil {
		return plan{}, err
	}

	// Step 3: workflow state machine
	res, err := workflow.Apply(workflow.Input{
		Principal: c.principal,
		Prev:      c.prev,
		Next:      next,
		Reason:    c.reason,
		Now:       c.now,
	})
	if err != nil {
		return plan{}, err
	}

	// Step 4: moderation, may override the status chosen above
	scan := c.scan
	if scan == nil && s.shouldScoreInline(c) {
		scan = s.scoreNow(ctx, next)
	}
	if scan == nil && c.prev != nil && hasVerdict(c.prev) && !s.engine.Bypasses(c.principal) && moderation.TextChanged(c.prev, next) {
		// stored score belongs to the old text: keep it, but queue a rescan.
		// error stays sticky until a scan succeeds (the drain retries it).
		next.ModerationStatus = model.ModerationUnscanned
	}
	outcome := s.engine.Apply(moderation.Input{
		Principal: c.principal,
		Next:      next,
		Scan:      scan,
		Now:       c.now,
	})

	// Step 5: publication stamp, sees the post-moderation status
	prevStatus := model.StatusDraft
	if c.prev != nil {
		prevStatus = c.prev.Status
	}
	workflow.StampPublication(prevStatus, next, c.now)

	p := plan{
		workflow:   res,
		moderation: outcome,
		published:  prevStatus != model.StatusPublished && next.Status == model.StatusPublished,
	}

	// Step 6: hand unscanned documents to the queue
	if s.enqueuer != nil && next.ModerationStatus == model.ModerationUnscanned {
		next.ModerationStatus = model.ModerationQueued
		p.enqueue = true
	}
	return p, nil
}

// hasVerdict reports whether the stored moderation status came from a successful scan
func hasVerdict(a *model.Article) bool {
	return a.ModerationStatus == model.ModerationScanned || a.ModerationStatus == model.ModerationFlagged
}

func (s *ArticleService) shouldScoreInline(c change) bool {
	return s.cfg.InlineModeration &&
		s.scorer != nil &&
		!s.engine.Bypasses(c.principal) &&
		moderation.TextChanged(c.prev, c.next)
}

func (s *ArticleService) scoreNow(ctx context.Context, a *model.Article) *moderation.Scan {
	if s.scorer == nil {
		return &moderation.Scan{Err: errors.New("no moderation scorer configured")}
	}
	res, err := s.scorer.Scan(ctx, moderation.Text(a))
	return &moderation.Scan{Result: res, Err: err}
}

// applySponsorship: sponsored content must disclose; the badge is added, never removed
func applySponsorship(a *model.Article) error {
	if !a.IsSponsored() {
		return nil
	}
	if strings.TrimSpace(a.SponsorDisclosure) == "" {
		return model.NewMissingDataError("sponsor_disclosure is required for sponsored content")
	}
	a.Sponsored = true
	if !a.HasBadge(model.SponsoredBadge) {
		a.Badges = append(append([]string{}, a.Badges...), model.SponsoredBadge)
	}
	return nil
}

// =====================================================
// AFTER-CHANGE CHAIN
// Runs only after a successful persist. Nothing here fails the request.
// =====================================================

func (s *ArticleService) afterChange(ctx context.Context, prev, next *model.Article, p plan) {
	// Step 1: public cache
	slugs := []string{next.Slug}
	if prev != nil && prev.Slug != next.Slug {
		slugs = append(slugs, prev.Slug)
	}
	s.invalidate(ctx, slugs...)

	// Step 2: moderation queue
	if p.enqueue {
		if err := s.enqueuer.EnqueueModeration(ctx, next.ID); err != nil {
			// document stays queued, the periodic drain picks it up
			log.Warn().Err(err).Str("article_id", next.ID.String()).Msg("failed to enqueue moderation")
		}
	}

	// Step 3: publish notification, fire-and-forget
	if p.published && s.notifier != nil {
		s.notifier.NotifyPublish(ctx, next.Summary())
	}

	// Step 4: scheduling sweep
	if !inSweep(ctx) {
		if _, err := s.SweepScheduled(ctx, s.cfg.SweepBatch); err != nil {
			log.Warn().Err(err).Msg("post-save sweep failed")
		}
	}
}

func (s *ArticleService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, cache.ArticleSlugKey(slug))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("slugs", slugs).Msg("article cache invalidation failed")
	}
}

// =====================================================
// FIELD TRACKING
// A field is written when the request carries it and it differs from the stored value.
// =====================================================

// createdFields compares a new document with an empty draft
func createdFields(a *model.Article) []string {
	var written []string
	if a.Status != model.StatusDraft {
		written = append(written, access.FieldStatus)
	}
	if len(a.Badges) > 0 {
		written = append(written, access.FieldBadges)
	}
	if a.HeroImage != nil {
		written = append(written, access.FieldHeroImage)
	}
	return written
}

// mergeUpdate copies the request onto next and returns the guarded fields it changed
func mergeUpdate(next *model.Article, req model.UpdateArticleRequest) ([]string, error) {
	var written []string

	if req.Title != nil {
		next.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		slug := utils.GenerateSlug(*req.Slug)
		if slug == "" {
			return nil, model.NewValidationError(errors.New("slug: cannot be derived, use letters or digits"))
		}
		next.Slug = slug
	}
	if len(req.Body) > 0 {
		body, err := model.DecodeBody(next.Type, req.Body)
		if err != nil {
			return nil, model.NewValidationError(err)
		}
		next.Body = body
	}
	if req.Badges != nil {
		if !sameStrings(next.Badges, *req.Badges) {
			written = append(written, access.FieldBadges)
		}
		next.Badges = append([]string{}, *req.Badges...)
	}
	if req.HeroImage != nil {
		hero := nonEmpty(req.HeroImage)
		if !sameStringPtr(next.HeroImage, hero) {
			written = append(written, access.FieldHeroImage)
		}
		next.HeroImage = hero
	}
	if req.Sponsored != nil {
		next.Sponsored = *req.Sponsored
	}
	if req.SponsorDisclosure != nil {
		next.SponsorDisclosure = strings.TrimSpace(*req.SponsorDisclosure)
	}
	if req.Status != nil && *req.Status != next.Status {
		written = append(written, access.FieldStatus)
		next.Status = *req.Status
	}
	if req.ScheduledPublishDate != nil {
		t := req.ScheduledPublishDate.UTC()
		next.ScheduledPublishDate = &t
	}
	if req.UnpublishReason != nil {
		next.UnpublishReason = strings.TrimSpace(*req.UnpublishReason)
	}
	if req.EditorialNotes != nil {
		next.EditorialNotes = *req.EditorialNotes
	}
	if req.Checklist != nil {
		next.Checklist = *req.Checklist
	}
	return written, nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
