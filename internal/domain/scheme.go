package domain

import "time"

type SchemeStatus string

const (
	SchemeStatusActive  SchemeStatus = "active"
	SchemeStatusPending SchemeStatus = "pending"
	SchemeStatusClosed  SchemeStatus = "closed"
)

func (s SchemeStatus) Valid() bool {
	switch s {
	case SchemeStatusActive, SchemeStatusPending, SchemeStatusClosed:
		return true
	}
	return false
}

// Scheme categories. The set is open on the wire; these are the known tags.
const (
	CategoryEducation  = "education"
	CategoryMedical    = "medical"
	CategoryHousing    = "housing"
	CategoryTraining   = "training"
	CategoryFamily     = "family"
	CategoryRetirement = "retirement"
	CategoryOther      = "other"
)

// EligibilityRule is the declarative constraint set attached to a scheme.
//
// Every field is optional: a nil pointer or nil slice imposes no constraint.
// A non-nil empty slice is a present constraint that nothing satisfies.
type EligibilityRule struct {
	MinAge          *int
	MaxAge          *int
	MinServiceYears *int

	Ranks           []string
	Statuses        []ServiceStatus
	Genders         []string
	Specializations []string
	Batches         []string
}

// IsEmpty reports whether the rule has no constraints at all.
func (r EligibilityRule) IsEmpty() bool {
	return r.MinAge == nil && r.MaxAge == nil && r.MinServiceYears == nil &&
		r.Ranks == nil && r.Statuses == nil && r.Genders == nil &&
		r.Specializations == nil && r.Batches == nil
}

// Clone returns a deep copy of r.
func (r EligibilityRule) Clone() EligibilityRule {
	out := EligibilityRule{
		MinAge:          cloneIntPtr(r.MinAge),
		MaxAge:          cloneIntPtr(r.MaxAge),
		MinServiceYears: cloneIntPtr(r.MinServiceYears),
		Ranks:           cloneStrings(r.Ranks),
		Genders:         cloneStrings(r.Genders),
		Specializations: cloneStrings(r.Specializations),
		Batches:         cloneStrings(r.Batches),
	}
	if r.Statuses != nil {
		out.Statuses = append([]ServiceStatus{}, r.Statuses...)
	}
	return out
}

// Scheme is a welfare benefit program.
type Scheme struct {
	ID          SchemeID
	Title       string
	Description string
	Category    string

	Eligibility EligibilityRule

	// Amount is a display string; no currency arithmetic is performed.
	Amount             string
	Benefits           string
	ApplicationProcess string

	Deadline *time.Time // date-only semantics at the edges
	Status   SchemeStatus

	// Informational only; never used to block eligibility.
	Applicants    int
	MaxApplicants int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of s.
func (s Scheme) Clone() Scheme {
	out := s
	out.Eligibility = s.Eligibility.Clone()
	if s.Deadline != nil {
		d := *s.Deadline
		out.Deadline = &d
	}
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

// IntPtr is a small helper for building rules.
func IntPtr(v int) *int { return &v }
