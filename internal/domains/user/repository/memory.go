package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	user "newsroom-backend/internal/domains/user"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
}

// NewMemoryRepository is the STORAGE_DRIVER=memory store
func NewMemoryRepository() user.Repository {
	return &memoryRepository{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := r.byEmail[email]; ok {
		return user.ErrEmailAlreadyExists
	}
	cp := *u
	cp.Email = email
	cp.Roles = append([]string{}, u.Roles...)
	r.byID[cp.ID] = &cp
	r.byEmail[email] = cp.ID
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *memoryRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.LastLoginAt = &now
	return nil
}
