package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/poll/model"
	"newsroom-backend/pkg/cache"
)

var (
	errEndsInPast    = errors.New("ends_at must be in the future")
	errUnknownOption = errors.New("option does not exist")
	errNoVoterKey    = errors.New("cannot identify voter")
)

// VoterKey identifies a ballot: the user id for sessions, the client IP for gate readers
func VoterKey(p *access.Principal, clientIP string) string {
	if p.HasSession() {
		return p.ID.String()
	}
	if clientIP == "" {
		return ""
	}
	return "anon:" + clientIP
}

// =====================================================
// VOTE
// =====================================================

func (s *PollService) Vote(
	ctx context.Context,
	p *access.Principal,
	creds access.Credentials,
	id uuid.UUID,
	clientIP string,
	req model.VoteRequest,
) error {
	// Step 1: Read access (session or gate) is the vote permission
	if !s.policy.Read(p, creds).Allowed {
		return model.NewNotFoundError()
	}
	if err := req.Validate(); err != nil {
		return model.NewValidationError(err)
	}
	voter := VoterKey(p, clientIP)
	if voter == "" {
		return model.NewValidationError(errNoVoterKey)
	}

	// Step 2: Rate limit per voter
	if err := s.checkRate(ctx, voter); err != nil {
		return err
	}

	// Step 3: Poll must be open, option must exist
	poll, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	if poll.Ended(now) {
		return model.NewClosedError()
	}
	if *req.Option >= len(poll.Options) {
		return model.NewValidationError(errUnknownOption)
	}

	// Step 4: One vote per voter (unique constraint)
	if err := s.repo.AddVote(ctx, &model.Vote{
		PollID:    poll.ID,
		VoterKey:  voter,
		Option:    *req.Option,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	log.Debug().Str("poll_id", poll.ID.String()).Int("option", *req.Option).Msg("vote recorded")
	return nil
}

// checkRate: INCR, EXPIRE on the first hit of the window
func (s *PollService) checkRate(ctx context.Context, voter string) error {
	if s.cache == nil || s.cfg.VoteLimit <= 0 {
		return nil
	}

	key := cache.VoteRateKey(voter)
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		// redis down: không chặn người vote
		log.Warn().Err(err).Msg("vote rate limit unavailable")
		return nil
	}
	if n == 1 {
		if err := s.cache.Expire(ctx, key, s.cfg.VoteWindow); err != nil {
			log.Warn().Err(err).Msg("vote rate limit expire failed")
		}
	}
	if n > int64(s.cfg.VoteLimit) {
		return model.NewRateLimitedError()
	}
	return nil
}

// =====================================================
// RESULTS
// =====================================================

// Results returns the tally when the poll's visibility admits the caller
func (s *PollService) Results(
	ctx context.Context,
	p *access.Principal,
	creds access.Credentials,
	id uuid.UUID,
	clientIP string,
) (*model.Results, error) {
	if !s.policy.Read(p, creds).Allowed {
		return nil, model.NewNotFoundError()
	}

	poll, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()

	canSee, err := s.visibility(ctx, poll, VoterKey(p, clientIP), now)
	if err != nil {
		return nil, err
	}
	if !canSee(p) {
		return nil, model.NewForbiddenError("Results are not visible yet")
	}

	counts, err := s.repo.CountVotes(ctx, poll.ID)
	if err != nil {
		return nil, model.NewInternalError("Failed to count votes", err)
	}
	return model.NewResults(poll, counts, now), nil
}

// visibility composes the results predicate; admins always see results
func (s *PollService) visibility(ctx context.Context, poll *model.Poll, voter string, now time.Time) (access.Predicate, error) {
	var rule access.Predicate
	switch poll.Visibility {
	case model.VisibilityAlways:
		rule = access.Always
	case model.VisibilityAfterVote:
		voted := false
		if voter != "" {
			var err error
			voted, err = s.repo.HasVoted(ctx, poll.ID, voter)
			if err != nil {
				return nil, fmt.Errorf("check vote: %w", err)
			}
		}
		rule = access.When(voted)
	case model.VisibilityAfterEnd:
		rule = access.When(poll.Ended(now))
	default:
		rule = access.Never
	}
	return access.Any(access.IsAdmin, rule), nil
}
