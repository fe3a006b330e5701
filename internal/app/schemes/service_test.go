package schemes_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	memclock "github.com/armywelfare/welfare-api/internal/adapters/memory/clock"
	memschemerepo "github.com/armywelfare/welfare-api/internal/adapters/memory/schemerepo"
	"github.com/armywelfare/welfare-api/internal/app/schemes"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/eligibility"
	"github.com/armywelfare/welfare-api/internal/search"
)

func newSeededService(t *testing.T) (*schemes.Service, *memschemerepo.Repo, *memclock.ManualClock) {
	t.Helper()
	repo := memschemerepo.NewRepo()
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	svc := schemes.NewService(repo, clk)
	if _, err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return svc, repo, clk
}

func ids(ss []domain.Scheme) []domain.SchemeID {
	out := make([]domain.SchemeID, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.ID)
	}
	return out
}

func captain() domain.Profile {
	return domain.Profile{
		Rank: "Captain", Age: 35, Gender: "male", ServiceYears: 10,
		Status: domain.ServiceStatusActive, Specialization: "Infantry", Batch: "2013",
	}
}

func TestService_Seed_OnlyWhenEmpty(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSeededService(t)
	n, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no inserts on a non-empty store, got %d", n)
	}
	all, err := svc.List(context.Background(), search.Criteria{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != len(schemes.Catalogue(time.Time{})) || all[0].ID != "1" {
		t.Fatalf("catalogue order broken: %v", ids(all))
	}
}

func TestService_Eligible_FullEvaluatorWithCriteria(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSeededService(t)
	res, err := svc.Eligible(context.Background(), captain())
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	if res.Coverage != eligibility.CoverageFull {
		t.Fatalf("coverage=%s", res.Coverage)
	}
	var got []domain.SchemeID
	for _, m := range res.Matches {
		got = append(got, m.Scheme.ID)
	}
	if !slices.Equal(got, []domain.SchemeID{"1", "2", "4"}) {
		t.Fatalf("matches=%v", got)
	}
	want := []string{
		"Min Service: 5 years",
		"Specializations: Infantry, Artillery, Engineers",
		"Status: Active, Retired",
		"Ranks: Captain, Major, Colonel, Lieutenant",
	}
	if !slices.Equal(res.Matches[0].Criteria, want) {
		t.Fatalf("criteria=%q", res.Matches[0].Criteria)
	}
}

func TestService_FindEligible_RosterVocabulary(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSeededService(t)
	age := 45
	res, err := svc.FindEligible(context.Background(), schemes.RosterInput{Age: &age, Status: "ex-serviceman", Rank: "officer"})
	if err != nil {
		t.Fatalf("FindEligible: %v", err)
	}
	if res.Coverage != eligibility.CoverageRoster {
		t.Fatalf("coverage=%s", res.Coverage)
	}
	if got := ids(res.Schemes); !slices.Equal(got, []domain.SchemeID{"r2", "r3", "r5"}) {
		t.Fatalf("schemes=%v", got)
	}

	// Canonical values are not part of the roster vocabulary.
	res, err = svc.FindEligible(context.Background(), schemes.RosterInput{Age: &age, Status: "family", Rank: "officer"})
	if err != nil {
		t.Fatalf("FindEligible family: %v", err)
	}
	if res.Schemes == nil || len(res.Schemes) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", res.Schemes)
	}
}

func TestService_FindEligible_MissingFields(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSeededService(t)
	_, err := svc.FindEligible(context.Background(), schemes.RosterInput{Status: "serving"})
	var se *schemes.Error
	if !errors.As(err, &se) || se.Status != 400 || se.Code != "MISSING_FIELDS" {
		t.Fatalf("expected 400 MISSING_FIELDS, got %v", err)
	}
	fields, _ := se.Details["fields"].([]string)
	if !slices.Equal(fields, []string{"age", "rank"}) {
		t.Fatalf("fields=%v", se.Details["fields"])
	}

	// Zero is a present age.
	zero := 0
	if _, err := svc.FindEligible(context.Background(), schemes.RosterInput{Age: &zero, Status: "serving", Rank: "jawan"}); err != nil {
		t.Fatalf("age 0 should be accepted, err=%v", err)
	}
}

func TestService_List_Filters(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSeededService(t)
	got, err := svc.List(context.Background(), search.Criteria{Category: "medical"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(ids(got), []domain.SchemeID{"2", "r2", "r5"}) {
		t.Fatalf("medical=%v", ids(got))
	}

	got, err = svc.List(context.Background(), search.Criteria{Term: "TRAINING", Status: "closed"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(ids(got), []domain.SchemeID{"4"}) {
		t.Fatalf("closed training=%v", ids(got))
	}
}

func TestService_Create_ValidatesAndNormalizes(t *testing.T) {
	t.Parallel()

	repo := memschemerepo.NewRepo()
	clk := memclock.NewManualClock(time.Unix(500, 0).UTC())
	svc := schemes.NewService(repo, clk)
	svc.SetNewSchemeIDForTest(func() domain.SchemeID { return "s1" })

	lo, hi := 40, 30
	_, err := svc.Create(context.Background(), schemes.CreateSchemeInput{
		Title:       "Bad Range",
		Eligibility: schemes.RuleInput{MinAge: &lo, MaxAge: &hi},
	})
	var se *schemes.Error
	if !errors.As(err, &se) || se.Status != 422 || se.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected 422 for minAge > maxAge, got %v", err)
	}

	if _, err := svc.Create(context.Background(), schemes.CreateSchemeInput{Title: "   "}); !errors.As(err, &se) || se.Status != 422 {
		t.Fatalf("expected 422 for blank title, got %v", err)
	}

	deadline := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), schemes.CreateSchemeInput{
		Title:    "  Veterans   Grant ",
		Category: " Retirement ",
		Eligibility: schemes.RuleInput{
			Statuses: []string{"serving", "ex-serviceman", "retired"},
			Genders:  []string{" Female "},
			Ranks:    []string{},
		},
		Deadline: &deadline,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "s1" || created.Title != "Veterans Grant" || created.Category != "retirement" || created.Status != domain.SchemeStatusActive {
		t.Fatalf("created=%+v", created)
	}
	if !slices.Equal(created.Eligibility.Statuses, []domain.ServiceStatus{domain.ServiceStatusActive, domain.ServiceStatusRetired}) {
		t.Fatalf("statuses=%v", created.Eligibility.Statuses)
	}
	if !slices.Equal(created.Eligibility.Genders, []string{"female"}) {
		t.Fatalf("genders=%v", created.Eligibility.Genders)
	}
	if created.Eligibility.Ranks == nil || len(created.Eligibility.Ranks) != 0 {
		t.Fatalf("empty rank set must stay present, got %#v", created.Eligibility.Ranks)
	}
	if created.Deadline == nil || !created.Deadline.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("deadline=%v", created.Deadline)
	}

	if _, err := svc.Create(context.Background(), schemes.CreateSchemeInput{
		Title:       "Bad Status",
		Eligibility: schemes.RuleInput{Statuses: []string{"deserter"}},
	}); !errors.As(err, &se) || se.Status != 422 {
		t.Fatalf("expected 422 for unknown status, got %v", err)
	}
}

func TestService_Update_PatchSemantics(t *testing.T) {
	t.Parallel()

	svc, repo, clk := newSeededService(t)
	clk.Advance(time.Hour)

	if _, err := svc.Update(context.Background(), "1", schemes.UpdateSchemeInput{Title: schemes.Null[string]()}); err == nil {
		t.Fatalf("expected error for null title")
	}

	updated, err := svc.Update(context.Background(), "1", schemes.UpdateSchemeInput{
		Eligibility: schemes.Null[schemes.RuleInput](),
		Deadline:    schemes.Null[time.Time](),
		Amount:      schemes.Some("₹60,000"),
		Status:      schemes.Some("pending"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Eligibility.IsEmpty() || updated.Deadline != nil || updated.Amount != "₹60,000" || updated.Status != domain.SchemeStatusPending {
		t.Fatalf("updated=%+v", updated)
	}
	if updated.Title != "Education Support Grant" {
		t.Fatalf("unspecified title changed: %q", updated.Title)
	}
	if !updated.UpdatedAt.Equal(clk.Now()) {
		t.Fatalf("updatedAt=%v", updated.UpdatedAt)
	}

	stored, err := repo.GetByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.Eligibility.IsEmpty() {
		t.Fatalf("stored rule not cleared: %+v", stored.Eligibility)
	}

	// The cleared rule is vacuous: everyone qualifies.
	res, err := svc.Eligible(context.Background(), domain.Profile{Rank: "Jawan", Status: domain.ServiceStatusFamily})
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	if len(res.Matches) == 0 || res.Matches[0].Scheme.ID != "1" || len(res.Matches[0].Criteria) != 0 {
		t.Fatalf("matches=%+v", res.Matches)
	}

	var se *schemes.Error
	if _, err := svc.Update(context.Background(), "missing", schemes.UpdateSchemeInput{}); !errors.As(err, &se) || se.Status != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "2", schemes.UpdateSchemeInput{MaxApplicants: schemes.Some(-1)}); !errors.As(err, &se) || se.Status != 422 {
		t.Fatalf("expected 422 for negative maxApplicants, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSeededService(t)
	if err := svc.Delete(context.Background(), "3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var se *schemes.Error
	if err := svc.Delete(context.Background(), "3"); !errors.As(err, &se) || se.Code != "SCHEME_NOT_FOUND" {
		t.Fatalf("expected SCHEME_NOT_FOUND, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "3"); !errors.As(err, &se) || se.Status != 404 {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}
