package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

const rollbackNoteMark = "[rollback]"

// =====================================================
// ROLLBACK
// =====================================================

// Rollback re-applies the content of a historical version as a new update.
// History is never rewritten: the result is one more version on top.
func (s *ArticleService) Rollback(
	ctx context.Context,
	p *access.Principal,
	id uuid.UUID,
	req model.RollbackRequest,
) (*model.Article, error) {
	// Step 1: Authorize + validate
	decision := s.policy.Update(p)
	if !decision.Allowed {
		return nil, deny(p, "Not allowed to roll back content")
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 2: Load current document and the snapshot
	current, err := s.repo.FindByID(ctx, id, decision.Filter)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.FindVersion(ctx, id, req.VersionID)
	if err != nil {
		return nil, err
	}
	if v.Snapshot == nil {
		return nil, model.NewInternalError("Version has no snapshot", fmt.Errorf("version %s", v.ID))
	}

	// Step 3: Strip protected fields, keep content
	update, err := restoreRequest(current, v, req.Reason)
	if err != nil {
		return nil, err
	}

	// Step 4: Normal update pipeline
	sourceID := v.ID
	meta := model.RollbackMeta{
		SourceVersionID: &sourceID,
		Reason:          req.Reason,
		At:              s.now(),
	}
	return s.save(ctx, p, id, update.WithRollback(meta), saveOptions{
		reason: fmt.Sprintf("rollback to version %d: %s", v.Version, req.Reason),
	})
}

// restoreRequest builds the update carrying the snapshot's content fields and
// status. Identity, slug, timestamps, ownership, logs, moderation state, the
// version counter and any rollback metadata in the snapshot are never copied.
// The snapshot status is requested like any other transition, so the workflow
// rejects it when the current status has no edge to it.
func restoreRequest(current *model.Article, v *model.Version, reason string) (model.UpdateArticleRequest, error) {
	snap := v.Snapshot

	body, err := json.Marshal(snap.Body)
	if err != nil {
		return model.UpdateArticleRequest{}, model.NewInternalError("Failed to encode snapshot body", err)
	}

	title := snap.Title
	badges := append([]string{}, snap.Badges...)
	hero := ""
	if snap.HeroImage != nil {
		hero = *snap.HeroImage
	}
	sponsored := snap.Sponsored
	disclosure := snap.SponsorDisclosure
	status := snap.Status

	note := fmt.Sprintf("%s restored version %d: %s", rollbackNoteMark, v.Version, reason)
	notes := note
	if current.EditorialNotes != "" {
		notes = current.EditorialNotes + "\n" + note
	}

	expected := current.Version
	return model.UpdateArticleRequest{
		Status:            &status,
		Title:             &title,
		Body:              body,
		Badges:            &badges,
		HeroImage:         &hero,
		Sponsored:         &sponsored,
		SponsorDisclosure: &disclosure,
		EditorialNotes:    &notes,
		ExpectedVersion:   &expected,
	}, nil
}
