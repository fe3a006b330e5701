package schemes

import (
	"time"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/eligibility"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// RuleInput is an eligibility rule as received from a client. Statuses may use
// either status vocabulary; they are stored in the canonical one.
type RuleInput struct {
	MinAge          *int
	MaxAge          *int
	MinServiceYears *int

	Ranks           []string
	Statuses        []string
	Genders         []string
	Specializations []string
	Batches         []string
}

type CreateSchemeInput struct {
	Title       string
	Description string
	Category    string
	Eligibility RuleInput

	Amount             string
	Benefits           string
	ApplicationProcess string

	Deadline *time.Time
	// Status defaults to active when empty.
	Status string

	Applicants    int
	MaxApplicants int
}

type UpdateSchemeInput struct {
	// Title cannot be null.
	Title       Optional[string]
	Description Optional[string]
	Category    Optional[string]
	// Eligibility replaces the whole rule; null clears every constraint.
	Eligibility Optional[RuleInput]

	Amount             Optional[string]
	Benefits           Optional[string]
	ApplicationProcess Optional[string]

	Deadline Optional[time.Time]
	Status   Optional[string]

	Applicants    Optional[int]
	MaxApplicants Optional[int]
}

// Match is one eligible scheme with the human-readable criteria it carries.
type Match struct {
	Scheme   domain.Scheme
	Criteria []string
}

// EligibleResult reports which evaluator produced the matches.
type EligibleResult struct {
	Coverage eligibility.Coverage
	Matches  []Match
}

// RosterInput is the three-attribute roster query. Age is a pointer so a
// missing value can be told apart from zero.
type RosterInput struct {
	Age    *int
	Status string
	Rank   string
}

type RosterResult struct {
	Coverage eligibility.Coverage
	Schemes  []domain.Scheme
}
