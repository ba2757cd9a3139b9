package repository

import (
	"context"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/poll/model"
)

type PollRepository interface {
	Create(ctx context.Context, p *model.Poll) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Poll, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AddVote returns ErrConflict when the voter already voted in this poll
	AddVote(ctx context.Context, v *model.Vote) error
	HasVoted(ctx context.Context, pollID uuid.UUID, voterKey string) (bool, error)
	// CountVotes returns votes per option index
	CountVotes(ctx context.Context, pollID uuid.UUID) (map[int]int, error)
}
