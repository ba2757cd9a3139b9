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

// =====================================================
// MODERATION QUEUE DRAIN
// =====================================================

// DrainModeration scans queued documents and retries failed scans.
func (s *ArticleService) DrainModeration(ctx context.Context, limit int) (*model.DrainResult, error) {
	if limit <= 0 {
		limit = s.cfg.DrainBatch
	}

	pending, _, err := s.repo.Find(ctx, repository.Query{
		ModerationStatuses: []model.ModerationStatus{model.ModerationQueued, model.ModerationError},
		Sort:               "updated_at",
		Page:               1,
		Limit:              limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find queued articles: %w", err)
	}

	result := &model.DrainResult{}
	for _, a := range pending {
		saved, err := s.ModerateOne(ctx, a.ID)
		if err != nil {
			result.Failed++
			log.Warn().Err(err).Str("article_id", a.ID.String()).Msg("moderation drain failed")
			continue
		}
		switch saved.ModerationStatus {
		case model.ModerationError:
			result.Failed++
		case model.ModerationFlagged:
			result.Scanned++
			result.Flagged++
		default:
			result.Scanned++
		}
	}

	if len(pending) > 0 {
		log.Info().
			Int("scanned", result.Scanned).
			Int("flagged", result.Flagged).
			Int("failed", result.Failed).
			Msg("moderation drain finished")
	}
	return result, nil
}

// ModerateOne scores one document and saves the result through the update
// pipeline as the system principal. Documents already scanned are returned as is.
func (s *ArticleService) ModerateOne(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	a, err := s.repo.FindByID(ctx, id, access.Filter{})
	if err != nil {
		return nil, err
	}

	switch a.ModerationStatus {
	case model.ModerationScanned, model.ModerationFlagged:
		return a, nil
	}

	// Step 1: score the stored text
	scan := s.scoreNow(ctx, a)
	if scan.Err != nil {
		log.Warn().Err(scan.Err).Str("article_id", id.String()).Msg("moderation scan failed")
	}

	// Step 2: write back; the version pins the text that was scored
	version := a.Version
	return s.save(ctx, access.System(), id, model.UpdateArticleRequest{
		ExpectedVersion: &version,
	}, saveOptions{scan: scan})
}
