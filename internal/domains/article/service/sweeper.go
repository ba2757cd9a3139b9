package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/domains/article/repository"
)

type sweepKey struct{}

// inSweep stops the post-save hook from starting a sweep inside a sweep
func inSweep(ctx context.Context) bool {
	v, _ := ctx.Value(sweepKey{}).(bool)
	return v
}

// =====================================================
// SCHEDULING SWEEPER
// =====================================================

// SweepScheduled promotes due scheduled documents to published as the system
// principal. Safe to run redundantly: the guard is re-checked per document and
// a stale read loses the version check instead of publishing twice.
func (s *ArticleService) SweepScheduled(ctx context.Context, limit int) (*model.SweepResult, error) {
	if limit <= 0 {
		limit = s.cfg.SweepBatch
	}
	ctx = context.WithValue(ctx, sweepKey{}, true)
	now := s.now()

	// Step 1: find candidates
	due, _, err := s.repo.Find(ctx, repository.Query{
		ScheduledBefore: &now,
		Sort:            "scheduled",
		Page:            1,
		Limit:           limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find scheduled articles: %w", err)
	}

	result := &model.SweepResult{Published: []uuid.UUID{}}
	system := access.System()
	published := model.StatusPublished

	// Step 2: one document at a time
	for _, a := range due {
		if !a.DueForPublish(now) {
			continue
		}
		result.Checked++

		version := a.Version
		saved, err := s.save(ctx, system, a.ID, model.UpdateArticleRequest{
			Status:          &published,
			ExpectedVersion: &version,
		}, saveOptions{reason: "scheduled publish date reached"})
		if err != nil {
			result.Failed++
			log.Warn().Err(err).Str("article_id", a.ID.String()).Msg("sweeper failed to publish article")
			continue
		}
		if saved.IsPublished() {
			result.Published = append(result.Published, saved.ID)
		}
	}

	if result.Checked > 0 {
		log.Info().
			Int("checked", result.Checked).
			Int("published", len(result.Published)).
			Int("failed", result.Failed).
			Msg("scheduled sweep finished")
	}
	return result, nil
}
