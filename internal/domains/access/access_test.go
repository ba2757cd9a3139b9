package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func user(roles ...Role) *Principal {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return NewUserPrincipal(uuid.New(), "u@example.com", names)
}

func TestRankOrder(t *testing.T) {
	order := AllRoles()
	for i := 0; i < len(order)-1; i++ {
		assert.Greater(t, RankOf(order[i]), RankOf(order[i+1]), "%s should outrank %s", order[i], order[i+1])
	}
	assert.Equal(t, 0, RankOf(RoleAnonymous))
	assert.Equal(t, 0, RankOf(Role("intern")))
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name                      string
		p                         *Principal
		admin, staff, ed, creator bool
	}{
		{"nil", nil, false, false, false, false},
		{"api reader", APIReader(), false, false, false, false},
		{"creator", user(RoleCreator), false, false, false, true},
		{"moderator", user(RoleModerator), false, false, false, true},
		{"editor", user(RoleEditor), false, false, true, true},
		{"staff", user(RoleStaff), false, true, true, true},
		{"admin", user(RoleAdmin), true, true, true, true},
		{"mixed", user(RoleCreator, RoleAdmin), true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.admin, IsAdmin(tt.p))
			assert.Equal(t, tt.staff, IsStaff(tt.p))
			assert.Equal(t, tt.ed, IsEditorOrAbove(tt.p))
			assert.Equal(t, tt.creator, IsCreator(tt.p))
		})
	}
}

func TestNewUserPrincipalDropsUnknownAndSystem(t *testing.T) {
	p := NewUserPrincipal(uuid.New(), "", []string{"editor", "wizard", "system"})
	assert.Equal(t, []Role{RoleEditor}, p.Roles)
	assert.False(t, IsSystem(p))
	assert.True(t, IsSystem(System()))
}

func TestHoldsRole(t *testing.T) {
	p := user(RoleEditor)
	assert.True(t, HoldsRole(p, RoleEditor))
	assert.False(t, HoldsRole(p, RoleCreator))
	assert.True(t, HoldsAtOrAbove(p, RoleCreator))
}

func TestIsOwner(t *testing.T) {
	p := user(RoleCreator)
	assert.True(t, IsOwner(p, p.ID))
	assert.False(t, IsOwner(p, uuid.New()))
	assert.False(t, IsOwner(APIReader(), uuid.Nil))
}

func TestGate(t *testing.T) {
	g := NewGate(GateConfig{APIKeys: []string{"k1", "k2"}, FetchCodes: []string{"c1"}})

	assert.True(t, g.Allow(Credentials{APIKey: "k2", FetchCode: "c1"}))
	assert.False(t, g.Allow(Credentials{APIKey: "k2"}), "fetch code is required")
	assert.False(t, g.Allow(Credentials{FetchCode: "c1"}), "api key is required")
	assert.False(t, g.Allow(Credentials{APIKey: "k3", FetchCode: "c1"}))
	assert.False(t, g.Allow(Credentials{APIKey: "k1", FetchCode: "c2"}))

	var empty *Gate
	assert.False(t, empty.Allow(Credentials{APIKey: "k1", FetchCode: "c1"}))
}

func TestContentPolicyRead(t *testing.T) {
	pol := ContentPolicy(NewGate(GateConfig{APIKeys: []string{"k"}, FetchCodes: []string{"c"}}))

	d := pol.Read(user(RoleCreator), Credentials{})
	require.True(t, d.Allowed)
	assert.Equal(t, ProjectionFull, d.Projection)
	assert.False(t, d.ReadOnly)

	d = pol.Read(nil, Credentials{APIKey: "k", FetchCode: "c"})
	require.True(t, d.Allowed)
	assert.Equal(t, ProjectionPublic, d.Projection)
	assert.True(t, d.ReadOnly)
	assert.True(t, d.Filter.PublishedOnly)

	assert.False(t, pol.Read(nil, Credentials{APIKey: "k"}).Allowed)
	assert.False(t, pol.Read(APIReader(), Credentials{}).Allowed)
}

func TestContentPolicyCreate(t *testing.T) {
	pol := ContentPolicy(NewGate(GateConfig{}))
	assert.True(t, pol.Create(user(RoleCreator)).Allowed)
	assert.True(t, pol.Create(user(RoleAdmin)).Allowed)
	assert.False(t, pol.Create(user()).Allowed)
	assert.False(t, pol.Create(APIReader()).Allowed)
	assert.False(t, pol.Create(nil).Allowed)
}

func TestContentPolicyUpdate(t *testing.T) {
	pol := ContentPolicy(NewGate(GateConfig{}))

	for _, r := range []Role{RoleAdmin, RoleStaff, RoleEditor} {
		d := pol.Update(user(r))
		assert.True(t, d.Allowed, r)
		assert.True(t, d.Filter.IsZero(), r)
	}

	creator := user(RoleCreator)
	d := pol.Update(creator)
	require.True(t, d.Allowed)
	require.NotNil(t, d.Filter.CreatedBy)
	assert.Equal(t, creator.ID, *d.Filter.CreatedBy)

	assert.False(t, pol.Update(user()).Allowed)
	assert.False(t, pol.Update(APIReader()).Allowed)
}

func TestContentPolicyDelete(t *testing.T) {
	pol := ContentPolicy(NewGate(GateConfig{}))

	assert.True(t, pol.Delete(user(RoleStaff)).Filter.IsZero())
	assert.True(t, pol.Delete(user(RoleAdmin)).Allowed)

	// editor is not staff: own documents only
	ed := user(RoleEditor)
	d := pol.Delete(ed)
	require.True(t, d.Allowed)
	assert.Equal(t, ed.ID, *d.Filter.CreatedBy)

	assert.False(t, pol.Delete(nil).Allowed)
}

func TestCheckDispatch(t *testing.T) {
	pol := ContentPolicy(NewGate(GateConfig{}))
	assert.True(t, pol.Check(OpCreate, user(RoleCreator), Credentials{}).Allowed)
	assert.False(t, pol.Check(Operation("archive"), user(RoleAdmin), Credentials{}).Allowed)
}

func TestFieldOverlay(t *testing.T) {
	o := ContentFieldOverlay()
	creator := user(RoleCreator)

	assert.True(t, o.CanWrite(creator, "title"))
	assert.False(t, o.CanWrite(creator, FieldStatus))
	assert.False(t, o.CanWrite(creator, FieldBadges))
	assert.True(t, o.CanWrite(user(RoleEditor), FieldStatus))

	assert.Equal(t, FieldHeroImage, o.FirstDenied(creator, []string{"title", FieldHeroImage, FieldStatus}))
	assert.Equal(t, "", o.FirstDenied(user(RoleAdmin), []string{FieldStatus, FieldModerationLog}))
}

func TestPredicateComposition(t *testing.T) {
	ed := user(RoleEditor)
	assert.True(t, Any(Never, AtOrAbove(RoleEditor))(ed))
	assert.False(t, All(Always, AtOrAbove(RoleAdmin))(ed))
	assert.True(t, Not(Predicate(IsAdmin))(ed))
	assert.True(t, When(true)(nil))
	assert.False(t, Any()(ed))
	assert.True(t, All()(ed))
}

func TestPollPolicy(t *testing.T) {
	pol := PollPolicy(NewGate(GateConfig{APIKeys: []string{"k"}, FetchCodes: []string{"c"}}))
	assert.True(t, pol.Create(user(RoleEditor)).Allowed)
	assert.False(t, pol.Create(user(RoleCreator)).Allowed)
	assert.True(t, pol.Read(nil, Credentials{APIKey: "k", FetchCode: "c"}).Allowed)
	assert.False(t, pol.Delete(user(RoleStaff)).Allowed)
}
