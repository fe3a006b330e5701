package schemes

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/eligibility"
	clockport "github.com/armywelfare/welfare-api/internal/ports/out/clock"
	"github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
	"github.com/armywelfare/welfare-api/internal/search"
)

type Service struct {
	repo schemerepo.Repository
	clk  clockport.Clock

	newSchemeID func() domain.SchemeID
}

func NewService(repo schemerepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newSchemeID: func() domain.SchemeID {
			return domain.SchemeID(uuid.NewString())
		},
	}
}

// SetNewSchemeIDForTest overrides scheme ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewSchemeIDForTest(fn func() domain.SchemeID) {
	if fn != nil {
		s.newSchemeID = fn
	}
}

func (s *Service) List(ctx context.Context, c search.Criteria) ([]domain.Scheme, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(all, c, search.SchemeFields), nil
}

func (s *Service) Get(ctx context.Context, id domain.SchemeID) (domain.Scheme, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schemerepo.ErrNotFound) {
			return domain.Scheme{}, notFound()
		}
		return domain.Scheme{}, err
	}
	return sc, nil
}

func (s *Service) Create(ctx context.Context, in CreateSchemeInput) (domain.Scheme, error) {
	title := domain.NormalizeHumanName(in.Title)
	if title == "" {
		return domain.Scheme{}, invalid("invalid title", "title", "must be non-empty")
	}
	rule, verr := normalizeRule(in.Eligibility)
	if verr != nil {
		return domain.Scheme{}, verr
	}
	status := domain.SchemeStatusActive
	if in.Status != "" {
		status = domain.SchemeStatus(domain.NormalizeTag(in.Status))
		if !status.Valid() {
			return domain.Scheme{}, invalid("invalid status", "status", "must be one of active, pending, closed")
		}
	}
	if in.Applicants < 0 || in.MaxApplicants < 0 {
		return domain.Scheme{}, invalid("invalid applicants", "applicants", "must be non-negative")
	}

	now := s.clk.Now()
	sc := domain.Scheme{
		ID:                 s.newSchemeID(),
		Title:              title,
		Description:        in.Description,
		Category:           normalizeCategory(in.Category),
		Eligibility:        rule,
		Amount:             in.Amount,
		Benefits:           in.Benefits,
		ApplicationProcess: in.ApplicationProcess,
		Deadline:           dateOnly(in.Deadline),
		Status:             status,
		Applicants:         in.Applicants,
		MaxApplicants:      in.MaxApplicants,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		if errors.Is(err, schemerepo.ErrAlreadyExists) {
			return domain.Scheme{}, &Error{Status: 409, Code: "SCHEME_ID_CONFLICT", Message: "scheme id conflict"}
		}
		return domain.Scheme{}, err
	}
	return sc, nil
}

func (s *Service) Update(ctx context.Context, id domain.SchemeID, in UpdateSchemeInput) (domain.Scheme, error) {
	sc, err := s.Get(ctx, id)
	if err != nil {
		return domain.Scheme{}, err
	}

	if in.Title.IsSpecified() {
		if in.Title.IsNull() {
			return domain.Scheme{}, invalid("invalid title", "title", "cannot be null")
		}
		title := domain.NormalizeHumanName(in.Title.Value())
		if title == "" {
			return domain.Scheme{}, invalid("invalid title", "title", "must be non-empty")
		}
		sc.Title = title
	}

	applyString := func(dst *string, o Optional[string]) {
		if !o.IsSpecified() {
			return
		}
		if o.IsNull() {
			*dst = ""
			return
		}
		*dst = o.Value()
	}
	applyString(&sc.Description, in.Description)
	applyString(&sc.Amount, in.Amount)
	applyString(&sc.Benefits, in.Benefits)
	applyString(&sc.ApplicationProcess, in.ApplicationProcess)

	if in.Category.IsSpecified() {
		sc.Category = normalizeCategory(in.Category.Value())
	}

	if in.Eligibility.IsSpecified() {
		if in.Eligibility.IsNull() {
			sc.Eligibility = domain.EligibilityRule{}
		} else {
			rule, verr := normalizeRule(in.Eligibility.Value())
			if verr != nil {
				return domain.Scheme{}, verr
			}
			sc.Eligibility = rule
		}
	}

	if in.Deadline.IsSpecified() {
		if in.Deadline.IsNull() {
			sc.Deadline = nil
		} else {
			d := in.Deadline.Value()
			sc.Deadline = dateOnly(&d)
		}
	}

	if in.Status.IsSpecified() {
		if in.Status.IsNull() {
			return domain.Scheme{}, invalid("invalid status", "status", "cannot be null")
		}
		st := domain.SchemeStatus(domain.NormalizeTag(in.Status.Value()))
		if !st.Valid() {
			return domain.Scheme{}, invalid("invalid status", "status", "must be one of active, pending, closed")
		}
		sc.Status = st
	}

	for _, f := range []struct {
		name string
		dst  *int
		o    Optional[int]
	}{
		{"applicants", &sc.Applicants, in.Applicants},
		{"maxApplicants", &sc.MaxApplicants, in.MaxApplicants},
	} {
		if !f.o.IsSpecified() {
			continue
		}
		if f.o.IsNull() {
			*f.dst = 0
			continue
		}
		if f.o.Value() < 0 {
			return domain.Scheme{}, invalid("invalid "+f.name, f.name, "must be non-negative")
		}
		*f.dst = f.o.Value()
	}

	sc.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, sc); err != nil {
		if errors.Is(err, schemerepo.ErrNotFound) {
			return domain.Scheme{}, notFound()
		}
		return domain.Scheme{}, err
	}
	return sc, nil
}

func (s *Service) Delete(ctx context.Context, id domain.SchemeID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, schemerepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

// Eligible evaluates every stored scheme against p with the full evaluator and
// returns the matches in catalogue order, each with its criteria text.
func (s *Service) Eligible(ctx context.Context, p domain.Profile) (EligibleResult, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return EligibleResult{}, err
	}
	matched := eligibility.Select(eligibility.Full, p, all)
	out := EligibleResult{Coverage: eligibility.Full.Coverage(), Matches: make([]Match, 0, len(matched))}
	for _, sc := range matched {
		out.Matches = append(out.Matches, Match{Scheme: sc, Criteria: eligibility.Explain(sc.Eligibility)})
	}
	return out, nil
}

// FindEligible runs the roster query against the repository. A status outside
// the roster vocabulary matches nothing.
func (s *Service) FindEligible(ctx context.Context, in RosterInput) (RosterResult, error) {
	var missing []string
	if in.Age == nil {
		missing = append(missing, "age")
	}
	if in.Status == "" {
		missing = append(missing, "status")
	}
	if in.Rank == "" {
		missing = append(missing, "rank")
	}
	if len(missing) > 0 {
		return RosterResult{}, &Error{
			Status:  400,
			Code:    "MISSING_FIELDS",
			Message: "age, status, and rank are required",
			Details: map[string]any{"fields": missing},
		}
	}

	res := RosterResult{Coverage: eligibility.Roster.Coverage(), Schemes: []domain.Scheme{}}
	rs, ok := domain.ParseRosterStatus(in.Status)
	if !ok {
		return res, nil
	}
	p, ok := eligibility.RosterQuery{Age: *in.Age, Status: rs, Rank: in.Rank}.Profile()
	if !ok {
		return res, nil
	}
	found, err := s.repo.FindEligible(ctx, p.Age, p.Status, p.Rank)
	if err != nil {
		return RosterResult{}, err
	}
	res.Schemes = found
	return res, nil
}

func normalizeRule(in RuleInput) (domain.EligibilityRule, *Error) {
	for _, b := range []struct {
		name string
		v    *int
	}{
		{"minAge", in.MinAge},
		{"maxAge", in.MaxAge},
		{"minServiceYears", in.MinServiceYears},
	} {
		if b.v != nil && *b.v < 0 {
			return domain.EligibilityRule{}, invalid("invalid eligibility", "eligibility."+b.name, "must be non-negative")
		}
	}
	if in.MinAge != nil && in.MaxAge != nil && *in.MinAge > *in.MaxAge {
		return domain.EligibilityRule{}, invalid("invalid eligibility", "eligibility.minAge", "must not exceed maxAge")
	}

	rule := domain.EligibilityRule{
		MinAge:          copyInt(in.MinAge),
		MaxAge:          copyInt(in.MaxAge),
		MinServiceYears: copyInt(in.MinServiceYears),
		Ranks:           domain.NormalizeSet(in.Ranks),
		Genders:         lowerSet(in.Genders),
		Specializations: domain.NormalizeSet(in.Specializations),
		Batches:         domain.NormalizeSet(in.Batches),
	}
	if in.Statuses != nil {
		rule.Statuses = make([]domain.ServiceStatus, 0, len(in.Statuses))
		for _, raw := range in.Statuses {
			st, ok := domain.ParseServiceStatus(raw)
			if !ok {
				return domain.EligibilityRule{}, invalid("invalid eligibility", "eligibility.status", "unknown status "+raw)
			}
			if !slices.Contains(rule.Statuses, st) {
				rule.Statuses = append(rule.Statuses, st)
			}
		}
	}
	return rule, nil
}

func normalizeCategory(c string) string {
	c = domain.NormalizeTag(c)
	if c == "" {
		return domain.CategoryOther
	}
	return c
}

func lowerSet(in []string) []string {
	out := domain.NormalizeSet(in)
	for i, v := range out {
		out[i] = domain.NormalizeTag(v)
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}
