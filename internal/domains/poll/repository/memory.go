package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/poll/model"
)

type memoryPollRepository struct {
	mu    sync.RWMutex
	polls map[uuid.UUID]*model.Poll
	votes map[uuid.UUID]map[string]int // poll -> voter -> option
}

func NewMemoryPollRepository() PollRepository {
	return &memoryPollRepository{
		polls: make(map[uuid.UUID]*model.Poll),
		votes: make(map[uuid.UUID]map[string]int),
	}
}

func (r *memoryPollRepository) Create(ctx context.Context, p *model.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.Options = append([]string{}, p.Options...)
	r.polls[p.ID] = &cp
	r.votes[p.ID] = make(map[string]int)
	return nil
}

func (r *memoryPollRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, model.NewNotFoundError()
	}
	cp := *p
	cp.Options = append([]string{}, p.Options...)
	return &cp, nil
}

func (r *memoryPollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return model.NewNotFoundError()
	}
	delete(r.polls, id)
	delete(r.votes, id)
	return nil
}

func (r *memoryPollRepository) AddVote(ctx context.Context, v *model.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ballots, ok := r.votes[v.PollID]
	if !ok {
		return model.NewNotFoundError()
	}
	if _, voted := ballots[v.VoterKey]; voted {
		return model.NewAlreadyVotedError()
	}
	ballots[v.VoterKey] = v.Option
	return nil
}

func (r *memoryPollRepository) HasVoted(ctx context.Context, pollID uuid.UUID, voterKey string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, voted := r.votes[pollID][voterKey]
	return voted, nil
}

func (r *memoryPollRepository) CountVotes(ctx context.Context, pollID uuid.UUID) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[int]int)
	for _, option := range r.votes[pollID] {
		counts[option]++
	}
	return counts, nil
}
