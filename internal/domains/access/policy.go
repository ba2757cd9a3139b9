package access

import "github.com/google/uuid"

// Operation là 4 thao tác được kiểm soát trên một collection
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Projection chọn tập field được trả về cho caller
type Projection string

const (
	ProjectionFull   Projection = "full"
	ProjectionPublic Projection = "public" // never internal / analytics fields
)

// Filter scopes which documents an allowed operation may touch. The storage
// layer turns it into query predicates, so scoped operations never need to load
// the document first.
type Filter struct {
	CreatedBy     *uuid.UUID
	PublishedOnly bool
}

func (f Filter) IsZero() bool {
	return f.CreatedBy == nil && !f.PublishedOnly
}

// Decision is the outcome of an operation predicate. Allowed=false is an opaque denial.
type Decision struct {
	Allowed    bool
	Filter     Filter
	Projection Projection
	ReadOnly   bool
}

func Allow() Decision {
	return Decision{Allowed: true, Projection: ProjectionFull}
}

func Deny() Decision {
	return Decision{}
}

// OwnedBy allows the operation on documents created by id only
func OwnedBy(id uuid.UUID) Decision {
	owner := id
	return Decision{Allowed: true, Projection: ProjectionFull, Filter: Filter{CreatedBy: &owner}}
}

// PublicRead is the decision for gate-approved anonymous readers
func PublicRead() Decision {
	return Decision{
		Allowed:    true,
		Projection: ProjectionPublic,
		ReadOnly:   true,
		Filter:     Filter{PublishedOnly: true},
	}
}

// CollectionPolicy holds the four operation predicates of one collection.
type CollectionPolicy struct {
	Read   func(p *Principal, creds Credentials) Decision
	Create func(p *Principal) Decision
	Update func(p *Principal) Decision
	Delete func(p *Principal) Decision
}

// Check dispatches on op. Read without credentials is evaluated with empty ones.
func (cp CollectionPolicy) Check(op Operation, p *Principal, creds Credentials) Decision {
	switch op {
	case OpRead:
		return cp.Read(p, creds)
	case OpCreate:
		return cp.Create(p)
	case OpUpdate:
		return cp.Update(p)
	case OpDelete:
		return cp.Delete(p)
	}
	return Deny()
}

// sessionOrGate: admin UI trusts the session; otherwise only approved frontends read.
func sessionOrGate(gate *Gate) func(p *Principal, creds Credentials) Decision {
	return func(p *Principal, creds Credentials) Decision {
		if p.HasSession() {
			return Allow()
		}
		if gate.Allow(creds) {
			return PublicRead()
		}
		return Deny()
	}
}

// ContentPolicy is the policy of content documents (article, review, spotlight, gallery, album).
func ContentPolicy(gate *Gate) CollectionPolicy {
	return CollectionPolicy{
		Read: sessionOrGate(gate),

		Create: func(p *Principal) Decision {
			if IsAdmin(p) || (p.HasSession() && IsCreator(p)) {
				return Allow()
			}
			return Deny()
		},

		Update: func(p *Principal) Decision {
			switch {
			case !p.HasSession():
				return Deny()
			case IsAdmin(p):
				return Allow()
			case IsEditorOrAbove(p):
				return Allow()
			case IsCreator(p):
				return OwnedBy(p.ID)
			}
			return Deny()
		},

		Delete: func(p *Principal) Decision {
			switch {
			case !p.HasSession():
				return Deny()
			case IsAdmin(p), IsStaff(p):
				return Allow()
			case IsCreator(p):
				return OwnedBy(p.ID)
			}
			return Deny()
		},
	}
}

// PollPolicy reuses the same predicates for polls: editors manage polls,
// readers (session or gate) read and vote.
func PollPolicy(gate *Gate) CollectionPolicy {
	return CollectionPolicy{
		Read: sessionOrGate(gate),
		Create: func(p *Principal) Decision {
			if p.HasSession() && IsEditorOrAbove(p) {
				return Allow()
			}
			return Deny()
		},
		Update: func(p *Principal) Decision {
			if p.HasSession() && IsEditorOrAbove(p) {
				return Allow()
			}
			return Deny()
		},
		Delete: func(p *Principal) Decision {
			if IsAdmin(p) {
				return Allow()
			}
			return Deny()
		},
	}
}
