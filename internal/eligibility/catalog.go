package eligibility

import "github.com/armywelfare/welfare-api/internal/domain"

// EligibleSchemes returns the schemes p qualifies for under full coverage, in
// input order. The input slice is not modified.
func EligibleSchemes(p domain.Profile, schemes []domain.Scheme) []domain.Scheme {
	return Select(Full, p, schemes)
}

// Select filters schemes with ev, preserving order.
func Select(ev Evaluator, p domain.Profile, schemes []domain.Scheme) []domain.Scheme {
	out := make([]domain.Scheme, 0, len(schemes))
	for _, s := range schemes {
		if ev.Check(p, s.Eligibility).Eligible {
			out = append(out, s)
		}
	}
	return out
}

// SelectRoster applies the roster query q to schemes. A status with no canonical
// mapping matches nothing.
func SelectRoster(q RosterQuery, schemes []domain.Scheme) []domain.Scheme {
	p, ok := q.Profile()
	if !ok {
		return []domain.Scheme{}
	}
	return Select(Roster, p, schemes)
}
