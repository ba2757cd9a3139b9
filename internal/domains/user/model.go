package user

import (
	"time"

	"github.com/google/uuid"

	"newsroom-backend/internal/domains/access"
)

// User là tài khoản đăng nhập admin UI (editor, creator, ...)
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Roles        []string   `json:"roles"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Principal builds the access principal of u
func (u *User) Principal() *access.Principal {
	return access.NewUserPrincipal(u.ID, u.Email, u.Roles)
}

// ToDTO never exposes the hash
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Roles:       append([]string{}, u.Roles...),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
