package user

import (
	"context"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/access"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error)
	GetMe(ctx context.Context, p *access.Principal) (*UserDTO, error)
	CreateUser(ctx context.Context, p *access.Principal, req CreateUserRequest) (*UserDTO, error)
	// EnsureUser creates the account when the email is unknown (bootstrap admin)
	EnsureUser(ctx context.Context, req CreateUserRequest) (uuid.UUID, error)
}
