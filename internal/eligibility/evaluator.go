// Package eligibility decides which welfare schemes a service profile qualifies for.
//
// Two evaluators exist with different predicate coverage. Full checks every rule
// field and treats an absent field as no constraint. Roster checks only the age
// range, status and rank, and treats an absent field as a failed match, which is
// how the persisted roster query behaves. Callers pick one explicitly and can
// report which is in effect through Coverage.
package eligibility

import (
	"slices"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// Predicate names one attribute check of an EligibilityRule.
type Predicate string

const (
	PredicateMinAge          Predicate = "minAge"
	PredicateMaxAge          Predicate = "maxAge"
	PredicateMinServiceYears Predicate = "minServiceYears"
	PredicateRanks           Predicate = "ranks"
	PredicateStatus          Predicate = "status"
	PredicateGender          Predicate = "gender"
	PredicateSpecializations Predicate = "specializations"
	PredicateBatch           Predicate = "batch"
)

// Coverage identifies an evaluator on the wire.
type Coverage string

const (
	CoverageFull   Coverage = "full"
	CoverageRoster Coverage = "roster"
)

// Result is the per-predicate outcome of checking one profile against one rule.
type Result struct {
	Eligible bool
	// Failed lists the predicates that did not hold, in evaluation order.
	Failed []Predicate
}

// Evaluator decides eligibility for a (profile, rule) pair.
type Evaluator interface {
	Coverage() Coverage
	Check(p domain.Profile, r domain.EligibilityRule) Result
}

var (
	Full   Evaluator = fullEvaluator{}
	Roster Evaluator = rosterEvaluator{}
)

// ByCoverage returns the evaluator for c.
func ByCoverage(c Coverage) (Evaluator, bool) {
	switch c {
	case CoverageFull:
		return Full, true
	case CoverageRoster:
		return Roster, true
	default:
		return nil, false
	}
}

// IsEligible reports whether p satisfies every present predicate of r.
func IsEligible(p domain.Profile, r domain.EligibilityRule) bool {
	return Full.Check(p, r).Eligible
}

// Check evaluates every predicate of r against p with full coverage.
func Check(p domain.Profile, r domain.EligibilityRule) Result {
	return Full.Check(p, r)
}

type fullEvaluator struct{}

func (fullEvaluator) Coverage() Coverage { return CoverageFull }

func (fullEvaluator) Check(p domain.Profile, r domain.EligibilityRule) Result {
	var failed []Predicate
	fail := func(pr Predicate, ok bool) {
		if !ok {
			failed = append(failed, pr)
		}
	}

	fail(PredicateMinAge, r.MinAge == nil || p.Age >= *r.MinAge)
	fail(PredicateMaxAge, r.MaxAge == nil || p.Age <= *r.MaxAge)
	fail(PredicateMinServiceYears, r.MinServiceYears == nil || p.ServiceYears >= *r.MinServiceYears)
	fail(PredicateRanks, r.Ranks == nil || slices.Contains(r.Ranks, p.Rank))
	fail(PredicateStatus, r.Statuses == nil || slices.Contains(r.Statuses, p.Status))
	fail(PredicateGender, r.Genders == nil || slices.Contains(r.Genders, p.Gender))
	fail(PredicateSpecializations, r.Specializations == nil || slices.Contains(r.Specializations, p.Specialization))
	fail(PredicateBatch, r.Batches == nil || slices.Contains(r.Batches, p.Batch))

	return Result{Eligible: len(failed) == 0, Failed: failed}
}

type rosterEvaluator struct{}

func (rosterEvaluator) Coverage() Coverage { return CoverageRoster }

// Check matches only when both age bounds are present and hold, and the status
// and rank sets are present and contain the profile's values. Every other rule
// field is ignored.
func (rosterEvaluator) Check(p domain.Profile, r domain.EligibilityRule) Result {
	var failed []Predicate
	if r.MinAge == nil || p.Age < *r.MinAge {
		failed = append(failed, PredicateMinAge)
	}
	if r.MaxAge == nil || p.Age > *r.MaxAge {
		failed = append(failed, PredicateMaxAge)
	}
	if !slices.Contains(r.Statuses, p.Status) {
		failed = append(failed, PredicateStatus)
	}
	if !slices.Contains(r.Ranks, p.Rank) {
		failed = append(failed, PredicateRanks)
	}
	return Result{Eligible: len(failed) == 0, Failed: failed}
}

// RosterQuery is the three-attribute query accepted by the roster path. Status
// uses the roster vocabulary.
type RosterQuery struct {
	Age    int
	Status domain.RosterStatus
	Rank   string
}

// Profile converts q to a canonical profile for evaluation. ok is false when the
// roster status has no canonical mapping.
func (q RosterQuery) Profile() (domain.Profile, bool) {
	st, ok := domain.RosterToService[q.Status]
	if !ok {
		return domain.Profile{}, false
	}
	return domain.Profile{Age: q.Age, Status: st, Rank: q.Rank}, true
}
