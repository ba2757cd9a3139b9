package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"newsroom-backend/internal/domains/access"
	user "newsroom-backend/internal/domains/user"
	"newsroom-backend/pkg/jwt"
)

type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	bcryptCost int
}

func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Login verifies the password and issues tokens carrying the user's roles
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. FIND USER BY EMAIL
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// không lộ email có tồn tại hay không
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	// 3. VERIFY PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// 4. CHECK USER STATUS
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	// 5. GENERATE JWT TOKENS
	resp, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	// 6. UPDATE LAST LOGIN TIME, lỗi thì bỏ qua
	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("update last login failed")
	}

	log.Info().Str("user_id", u.ID.String()).Strs("roles", u.Roles).Msg("user logged in")
	return resp, nil
}

// Refresh re-reads the user so role changes apply on the next access token
func (s *userService) Refresh(ctx context.Context, req user.RefreshRequest) (*user.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}
	return s.issueTokens(u)
}

func (s *userService) GetMe(ctx context.Context, p *access.Principal) (*user.UserDTO, error) {
	if !p.HasSession() {
		return nil, user.ErrForbidden
	}
	u, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// CreateUser - admin only, and never grants a role ranked above the granter
func (s *userService) CreateUser(ctx context.Context, p *access.Principal, req user.CreateUserRequest) (*user.UserDTO, error) {
	if !access.IsAdmin(p) {
		return nil, user.ErrForbidden
	}
	for _, r := range req.Roles {
		if !access.HoldsAtOrAbove(p, access.Role(r)) {
			return nil, user.ErrRoleAboveGranter
		}
	}

	u, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID.String()).Str("created_by", p.ID.String()).Strs("roles", u.Roles).Msg("user created")

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) EnsureUser(ctx context.Context, req user.CreateUserRequest) (uuid.UUID, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return uuid.Nil, err
	}

	u, err := s.create(ctx, req)
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}

func (s *userService) create(ctx context.Context, req user.CreateUserRequest) (*user.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Roles:        req.Roles,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) issueTokens(u *user.User) (*user.LoginResponse, error) {
	p := u.Principal()
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, p.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.AccessTTL()),
		User:         u.ToDTO(),
	}, nil
}
