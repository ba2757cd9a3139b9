package access

// Predicate is a capability test over a principal. Access rules for every
// collection are composed from these rather than re-implementing rank logic.
type Predicate func(p *Principal) bool

// Any is true when at least one predicate holds
func Any(preds ...Predicate) Predicate {
	return func(p *Principal) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

// All is true when every predicate holds
func All(preds ...Predicate) Predicate {
	return func(p *Principal) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

func Not(pred Predicate) Predicate {
	return func(p *Principal) bool {
		return !pred(p)
	}
}

// Always / Never are useful as constant branches
func Always(*Principal) bool { return true }
func Never(*Principal) bool  { return false }

// When lifts a plain condition into a predicate
func When(cond bool) Predicate {
	return func(*Principal) bool { return cond }
}

// AtOrAbove is the predicate form of HoldsAtOrAbove
func AtOrAbove(role Role) Predicate {
	return func(p *Principal) bool { return HoldsAtOrAbove(p, role) }
}

// HasSession is the predicate form of Principal.HasSession
func HasSession(p *Principal) bool {
	return p.HasSession()
}
