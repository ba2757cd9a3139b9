package access

import (
	"context"

	"github.com/google/uuid"
)

// PrincipalKind phân biệt user đăng nhập, frontend reader qua API key và process nội bộ
type PrincipalKind string

const (
	KindUser   PrincipalKind = "user"
	KindAPI    PrincipalKind = "api"
	KindSystem PrincipalKind = "system"
)

// SystemID is the fixed identity recorded in audit entries written by internal processes.
var SystemID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Principal is the caller as seen by access checks.
type Principal struct {
	ID    uuid.UUID     `json:"id"`
	Kind  PrincipalKind `json:"kind"`
	Email string        `json:"email,omitempty"`
	Roles []Role        `json:"roles"`
}

// NewUserPrincipal builds a session principal, dropping unknown role names.
func NewUserPrincipal(id uuid.UUID, email string, roles []string) *Principal {
	p := &Principal{ID: id, Kind: KindUser, Email: email}
	for _, r := range roles {
		role := Role(r)
		if role.IsValid() && role != RoleSystem {
			p.Roles = append(p.Roles, role)
		}
	}
	return p
}

// APIReader is the principal for an anonymous caller admitted by the Gate. It carries no role.
func APIReader() *Principal {
	return &Principal{Kind: KindAPI}
}

// System is the principal used by the sweeper and the moderation drain.
func System() *Principal {
	return &Principal{ID: SystemID, Kind: KindSystem, Roles: []Role{RoleSystem}}
}

// HasSession is true for logged-in users and internal processes.
func (p *Principal) HasSession() bool {
	return p != nil && (p.Kind == KindUser || p.Kind == KindSystem)
}

// RoleNames returns the roles as plain strings (JWT claims, DB arrays)
func (p *Principal) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, r.String())
	}
	return names
}

type principalKey struct{}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, or nil
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
