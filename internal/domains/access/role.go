package access

import "github.com/google/uuid"

// Role là tên một vai trò trong hệ thống biên tập
type Role string

const (
	RoleSystem     Role = "system"      // Internal processes (sweeper, moderation drain)
	RoleSuperAdmin Role = "super_admin" // Owner of the installation
	RoleAdmin      Role = "admin"       // Full editorial + admin access
	RoleStaff      Role = "staff"       // Newsroom staff, can archive/delete
	RoleEditor     Role = "editor"      // Drives the editorial pipeline
	RoleModerator  Role = "moderator"   // Comment / community moderation
	RoleCreator    Role = "creator"     // Writes content
	RoleAnonymous  Role = "anonymous"   // Implicit, never stored
)

// rankTable - total order, higher number = more privilege
var rankTable = map[Role]int{
	RoleAnonymous:  0,
	RoleCreator:    1,
	RoleModerator:  2,
	RoleEditor:     3,
	RoleStaff:      4,
	RoleAdmin:      5,
	RoleSuperAdmin: 6,
	RoleSystem:     7,
}

// AllRoles returns every assignable role, highest first
func AllRoles() []Role {
	return []Role{RoleSystem, RoleSuperAdmin, RoleAdmin, RoleStaff, RoleEditor, RoleModerator, RoleCreator}
}

// IsValid kiểm tra role hợp lệ (anonymous không được gán)
func (r Role) IsValid() bool {
	rank, ok := rankTable[r]
	return ok && rank > 0
}

func (r Role) String() string {
	return string(r)
}

// RankOf returns the position of role in the total order. Unknown roles rank as anonymous.
func RankOf(role Role) int {
	return rankTable[role]
}

// HoldsAtOrAbove reports whether p holds any role ranked at or above role.
func HoldsAtOrAbove(p *Principal, role Role) bool {
	if p == nil {
		return false
	}
	want := RankOf(role)
	for _, r := range p.Roles {
		if RankOf(r) >= want {
			return true
		}
	}
	return false
}

// HoldsRole reports whether p holds exactly role.
func HoldsRole(p *Principal, role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func IsAdmin(p *Principal) bool {
	return HoldsAtOrAbove(p, RoleAdmin)
}

func IsStaff(p *Principal) bool {
	return HoldsAtOrAbove(p, RoleStaff)
}

func IsEditorOrAbove(p *Principal) bool {
	return HoldsAtOrAbove(p, RoleEditor)
}

func IsCreator(p *Principal) bool {
	return HoldsAtOrAbove(p, RoleCreator)
}

// IsSystem is true only for internal processes, never for a logged-in user.
func IsSystem(p *Principal) bool {
	return p != nil && p.Kind == KindSystem && HoldsRole(p, RoleSystem)
}

// IsOwner reports whether p is the principal recorded in createdBy.
func IsOwner(p *Principal, createdBy uuid.UUID) bool {
	return p != nil && p.ID != uuid.Nil && p.ID == createdBy
}
