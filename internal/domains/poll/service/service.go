package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/poll/model"
	"newsroom-backend/internal/domains/poll/repository"
	"newsroom-backend/pkg/cache"
)

type ServiceInterface interface {
	CreatePoll(ctx context.Context, p *access.Principal, req model.CreatePollRequest) (*model.Poll, error)
	// GetPoll returns *model.Poll for sessions, *model.PublicPoll for gate readers
	GetPoll(ctx context.Context, p *access.Principal, creds access.Credentials, id uuid.UUID) (interface{}, error)
	Vote(ctx context.Context, p *access.Principal, creds access.Credentials, id uuid.UUID, clientIP string, req model.VoteRequest) error
	Results(ctx context.Context, p *access.Principal, creds access.Credentials, id uuid.UUID, clientIP string) (*model.Results, error)
	DeletePoll(ctx context.Context, p *access.Principal, id uuid.UUID) error
}

type Config struct {
	VoteLimit  int
	VoteWindow time.Duration
	Now        func() time.Time
}

type PollService struct {
	repo   repository.PollRepository
	policy access.CollectionPolicy
	cache  cache.Cache // nil: no vote rate limit
	cfg    Config
}

func NewPollService(repo repository.PollRepository, policy access.CollectionPolicy, cache cache.Cache, cfg Config) *PollService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.VoteWindow <= 0 {
		cfg.VoteWindow = time.Minute
	}
	return &PollService{repo: repo, policy: policy, cache: cache, cfg: cfg}
}

var _ ServiceInterface = (*PollService)(nil)

func (s *PollService) now() time.Time {
	return s.cfg.Now().UTC()
}

// deny: callers without a session never learn the poll exists
func deny(p *access.Principal, message string) error {
	if !p.HasSession() {
		return model.NewNotFoundError()
	}
	return model.NewForbiddenError(message)
}

// =====================================================
// CREATE / READ / DELETE
// =====================================================

func (s *PollService) CreatePoll(ctx context.Context, p *access.Principal, req model.CreatePollRequest) (*model.Poll, error) {
	if !s.policy.Create(p).Allowed {
		return nil, deny(p, "Only editors can create polls")
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	now := s.now()
	if req.EndsAt != nil && !req.EndsAt.After(now) {
		return nil, model.NewValidationError(errEndsInPast)
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityAlways
	}

	poll := &model.Poll{
		ID:         uuid.New(),
		Question:   req.Question,
		Options:    req.Options,
		Visibility: visibility,
		EndsAt:     utcPtr(req.EndsAt),
		CreatedBy:  p.ID,
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, poll); err != nil {
		return nil, err
	}

	log.Info().Str("poll_id", poll.ID.String()).Str("visibility", string(visibility)).Msg("poll created")
	return poll, nil
}

func (s *PollService) GetPoll(ctx context.Context, p *access.Principal, creds access.Credentials, id uuid.UUID) (interface{}, error) {
	decision := s.policy.Read(p, creds)
	if !decision.Allowed {
		return nil, model.NewNotFoundError()
	}
	poll, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if decision.Projection == access.ProjectionPublic {
		return poll.ToPublic(), nil
	}
	return poll, nil
}

func (s *PollService) DeletePoll(ctx context.Context, p *access.Principal, id uuid.UUID) error {
	if !s.policy.Delete(p).Allowed {
		return deny(p, "Only admins can delete polls")
	}
	return s.repo.Delete(ctx, id)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
