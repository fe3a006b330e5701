// Package contracttest holds behaviour suites that every repository backend
// must pass. Each backend package calls the Run* functions from its own tests.
package contracttest

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/eligibility"
	contactrepoport "github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
	grievancerepoport "github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
	idempotencyport "github.com/armywelfare/welfare-api/internal/ports/out/idempotency"
	listingrepoport "github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
	schemerepoport "github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
	userrepoport "github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type SchemeRepoFactory func(t *testing.T) (schemerepoport.Repository, CleanupFunc)
type GrievanceRepoFactory func(t *testing.T) (grievancerepoport.Repository, CleanupFunc)
type ListingRepoFactory func(t *testing.T) (listingrepoport.Repository, CleanupFunc)
type ContactRepoFactory func(t *testing.T) (contactrepoport.Repository, CleanupFunc)
type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:     idempotencyport.Key("k-" + uuid.NewString()),
		Subject: domain.SubjectID("user-1"),
		Method:  "POST",
		Route:   "/schemes",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: ok=%v rec=%+v", ok, got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Response records are keyed separately by body hash.
	respFP := fp
	respFP.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, respFP); err != nil || ok {
		t.Fatalf("response record should be absent: ok=%v err=%v", ok, err)
	}
}

func schemeFixture(now time.Time, title string, rule domain.EligibilityRule) domain.Scheme {
	deadline := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return domain.Scheme{
		ID:                 domain.SchemeID(uuid.NewString()),
		Title:              title,
		Description:        title + " description",
		Category:           domain.CategoryEducation,
		Eligibility:        rule,
		Amount:             "₹50,000",
		Benefits:           "Grant",
		ApplicationProcess: "Apply online",
		Deadline:           &deadline,
		Status:             domain.SchemeStatusActive,
		Applicants:         3,
		MaxApplicants:      10,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func filterIDs(ss []domain.Scheme, keep []domain.SchemeID) []domain.SchemeID {
	out := []domain.SchemeID{}
	for _, s := range ss {
		if slices.Contains(keep, s.ID) {
			out = append(out, s.ID)
		}
	}
	return out
}

func RunSchemeRepo(t *testing.T, newRepo SchemeRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	rosterRule := domain.EligibilityRule{
		MinAge:   domain.IntPtr(25),
		MaxAge:   domain.IntPtr(50),
		Statuses: []domain.ServiceStatus{domain.ServiceStatusActive, domain.ServiceStatusRetired},
		Ranks:    []string{"Captain", "Major"},
	}
	a := schemeFixture(now, "Alpha", rosterRule)
	a.Eligibility.Genders = []string{"female"}
	a.Eligibility.Specializations = []string{"Infantry"}
	a.Eligibility.Batches = []string{"2013"}
	a.Eligibility.MinServiceYears = domain.IntPtr(5)
	b := schemeFixture(now.Add(time.Second), "Bravo", domain.EligibilityRule{
		Statuses: []domain.ServiceStatus{domain.ServiceStatusActive},
		Ranks:    []string{"Captain"},
	})
	c := schemeFixture(now.Add(2*time.Second), "Charlie", domain.EligibilityRule{
		MinAge:   domain.IntPtr(40),
		MaxAge:   domain.IntPtr(60),
		Statuses: []domain.ServiceStatus{domain.ServiceStatusRetired},
		Ranks:    []string{"Captain"},
	})
	d := schemeFixture(now.Add(3*time.Second), "Delta", domain.EligibilityRule{})
	d.Deadline = nil
	all := []domain.Scheme{a, b, c, d}
	ids := []domain.SchemeID{a.ID, b.ID, c.ID, d.ID}

	for _, s := range all {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create %s: %v", s.Title, err)
		}
	}
	if err := repo.Create(ctx, a); !errors.Is(err, schemerepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v, want ErrAlreadyExists", err)
	}

	// Round trip keeps the rule intact, including absent vs present fields.
	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Alpha" || got.Amount != a.Amount || got.Status != a.Status || got.Applicants != 3 || got.MaxApplicants != 10 {
		t.Fatalf("GetByID=%+v", got)
	}
	if got.Eligibility.MinAge == nil || *got.Eligibility.MinAge != 25 || got.Eligibility.MaxAge == nil || *got.Eligibility.MaxAge != 50 {
		t.Fatalf("age bounds lost: %+v", got.Eligibility)
	}
	if got.Eligibility.MinServiceYears == nil || *got.Eligibility.MinServiceYears != 5 {
		t.Fatalf("min service lost: %+v", got.Eligibility)
	}
	if !slices.Equal(got.Eligibility.Ranks, []string{"Captain", "Major"}) ||
		!slices.Equal(got.Eligibility.Genders, []string{"female"}) ||
		!slices.Equal(got.Eligibility.Batches, []string{"2013"}) {
		t.Fatalf("sets lost: %+v", got.Eligibility)
	}
	if got.Deadline == nil || !got.Deadline.Equal(*a.Deadline) {
		t.Fatalf("deadline=%v, want %v", got.Deadline, a.Deadline)
	}
	gotD, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID d: %v", err)
	}
	if !gotD.Eligibility.IsEmpty() || gotD.Deadline != nil {
		t.Fatalf("empty rule should stay empty: %+v deadline=%v", gotD.Eligibility, gotD.Deadline)
	}

	// Deterministic ordering by creation time.
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := filterIDs(list, ids); !slices.Equal(got, ids) {
		t.Fatalf("List order=%v, want %v", got, ids)
	}

	// Roster query agrees with the in-process roster evaluator.
	queries := []eligibility.RosterQuery{
		{Age: 30, Status: domain.RosterStatusServing, Rank: "Captain"},
		{Age: 45, Status: domain.RosterStatusExServiceman, Rank: "Captain"},
		{Age: 55, Status: domain.RosterStatusRetired, Rank: "Captain"},
		{Age: 30, Status: domain.RosterStatusServing, Rank: "Colonel"},
		{Age: 20, Status: domain.RosterStatusServing, Rank: "Major"},
	}
	for _, q := range queries {
		p, ok := q.Profile()
		if !ok {
			t.Fatalf("unmapped roster status %q", q.Status)
		}
		found, err := repo.FindEligible(ctx, p.Age, p.Status, p.Rank)
		if err != nil {
			t.Fatalf("FindEligible(%+v): %v", q, err)
		}
		want := filterIDs(eligibility.SelectRoster(q, all), ids)
		if got := filterIDs(found, ids); !slices.Equal(got, want) {
			t.Fatalf("FindEligible(%+v)=%v, want %v", q, got, want)
		}
	}
	// Alpha matches on the roster path even though the full rule would reject
	// a male profile; Bravo never matches because it has no age bounds.
	found, err := repo.FindEligible(ctx, 45, domain.ServiceStatusRetired, "Captain")
	if err != nil {
		t.Fatalf("FindEligible: %v", err)
	}
	if got := filterIDs(found, ids); !slices.Equal(got, []domain.SchemeID{a.ID, c.ID}) {
		t.Fatalf("FindEligible retired captain=%v, want [alpha charlie]", got)
	}

	// Update replaces the record.
	upd := got
	upd.Title = "Alpha 2"
	upd.Eligibility.Genders = nil
	upd.Status = domain.SchemeStatusClosed
	upd.UpdatedAt = now.Add(time.Hour)
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Title != "Alpha 2" || got.Status != domain.SchemeStatusClosed || got.Eligibility.Genders != nil {
		t.Fatalf("after update=%+v", got)
	}
	missing := upd
	missing.ID = domain.SchemeID(uuid.NewString())
	if err := repo.Update(ctx, missing); !errors.Is(err, schemerepoport.ErrNotFound) {
		t.Fatalf("Update missing err=%v, want ErrNotFound", err)
	}

	// Delete.
	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, b.ID); !errors.Is(err, schemerepoport.ErrNotFound) {
		t.Fatalf("GetByID deleted err=%v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, b.ID); !errors.Is(err, schemerepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v, want ErrNotFound", err)
	}
}

func RunGrievanceRepo(t *testing.T, newRepo GrievanceRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	owner := domain.UserID(uuid.NewString())
	other := domain.UserID(uuid.NewString())
	g1 := domain.Grievance{
		ID: domain.GrievanceID(uuid.NewString()), OwnerID: owner,
		Title: "Pay delay", Description: "Arrears pending", Category: "pay",
		Priority: domain.PriorityHigh, Status: domain.GrievanceStatusSubmitted,
		CreatedAt: now, UpdatedAt: now,
	}
	g2 := g1
	g2.ID = domain.GrievanceID(uuid.NewString())
	g2.Title = "Quarters"
	g2.CreatedAt = now.Add(time.Minute)
	g2.UpdatedAt = g2.CreatedAt
	g3 := g1
	g3.ID = domain.GrievanceID(uuid.NewString())
	g3.OwnerID = other
	g3.CreatedAt = now.Add(2 * time.Minute)

	for _, g := range []domain.Grievance{g1, g2, g3} {
		if err := repo.Create(ctx, g); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, g1); !errors.Is(err, grievancerepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v", err)
	}

	mine, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != g2.ID || mine[1].ID != g1.ID {
		t.Fatalf("ListByOwner=%+v, want [g2 g1] newest first", mine)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	seen := 0
	for _, g := range all {
		if g.ID == g1.ID || g.ID == g2.ID || g.ID == g3.ID {
			seen++
		}
	}
	if seen != 3 {
		t.Fatalf("List missing records: %+v", all)
	}

	g1.Status = domain.GrievanceStatusResolved
	g1.UpdatedAt = now.Add(time.Hour)
	if err := repo.Update(ctx, g1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, g1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.GrievanceStatusResolved || got.OwnerID != owner || got.Priority != domain.PriorityHigh {
		t.Fatalf("after update=%+v", got)
	}

	if _, err := repo.GetByID(ctx, domain.GrievanceID(uuid.NewString())); !errors.Is(err, grievancerepoport.ErrNotFound) {
		t.Fatalf("GetByID missing err=%v", err)
	}
	missing := g1
	missing.ID = domain.GrievanceID(uuid.NewString())
	if err := repo.Update(ctx, missing); !errors.Is(err, grievancerepoport.ErrNotFound) {
		t.Fatalf("Update missing err=%v", err)
	}
}

func RunListingRepo(t *testing.T, newRepo ListingRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	price := "₹500"
	l1 := domain.Listing{
		ID: domain.ListingID(uuid.NewString()), OwnerID: domain.UserID(uuid.NewString()), OwnerName: "Sgt. Singh",
		Title: "Engineering books", Description: "Set of five", Category: "books",
		Type: domain.ListingTypeOffer, Location: "Delhi Cantt", Price: &price,
		ContactInfo: "98xxxx", Images: []string{"https://img/1.jpg"},
		Status: domain.ListingStatusAvailable, CreatedAt: now,
	}
	l2 := l1
	l2.ID = domain.ListingID(uuid.NewString())
	l2.Price = nil
	l2.Images = nil
	l2.Type = domain.ListingTypeRequest
	l2.CreatedAt = now.Add(time.Minute)

	for _, l := range []domain.Listing{l1, l2} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, l1); !errors.Is(err, listingrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v", err)
	}

	got, err := repo.GetByID(ctx, l1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Price == nil || *got.Price != price || !slices.Equal(got.Images, l1.Images) || got.OwnerName != "Sgt. Singh" {
		t.Fatalf("GetByID=%+v", got)
	}
	got2, err := repo.GetByID(ctx, l2.ID)
	if err != nil {
		t.Fatalf("GetByID l2: %v", err)
	}
	if got2.Price != nil || len(got2.Images) != 0 || got2.Type != domain.ListingTypeRequest {
		t.Fatalf("GetByID l2=%+v", got2)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var order []domain.ListingID
	for _, l := range list {
		if l.ID == l1.ID || l.ID == l2.ID {
			order = append(order, l.ID)
		}
	}
	if !slices.Equal(order, []domain.ListingID{l2.ID, l1.ID}) {
		t.Fatalf("List order=%v, want newest first", order)
	}

	if err := repo.Delete(ctx, l1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, l1.ID); !errors.Is(err, listingrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v", err)
	}
	if _, err := repo.GetByID(ctx, l1.ID); !errors.Is(err, listingrepoport.ErrNotFound) {
		t.Fatalf("GetByID deleted err=%v", err)
	}
}

func RunContactRepo(t *testing.T, newRepo ContactRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(4000, 0).UTC()
	owner := domain.UserID(uuid.NewString())
	other := domain.UserID(uuid.NewString())
	shared := domain.EmergencyContact{
		ID: domain.ContactID(uuid.NewString()), Name: "Base Hospital", Department: "Medical Corps",
		Phone: "108", Location: "Sector 4", Availability: domain.Availability247,
		Category: "medical", Priority: domain.PriorityHigh, CreatedAt: now,
	}
	mine := domain.EmergencyContact{
		ID: domain.ContactID(uuid.NewString()), OwnerID: owner, Name: "Spouse", Relationship: "wife",
		Phone: "98xxxx", Availability: domain.AvailabilityOnCall, Category: "personal",
		Priority: domain.PriorityMedium, CreatedAt: now.Add(time.Second),
	}
	theirs := mine
	theirs.ID = domain.ContactID(uuid.NewString())
	theirs.OwnerID = other
	theirs.CreatedAt = now.Add(2 * time.Second)

	for _, c := range []domain.EmergencyContact{shared, mine, theirs} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, shared); !errors.Is(err, contactrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v", err)
	}

	visible, err := repo.ListVisibleTo(ctx, owner)
	if err != nil {
		t.Fatalf("ListVisibleTo: %v", err)
	}
	has := func(cs []domain.EmergencyContact, id domain.ContactID) bool {
		return slices.ContainsFunc(cs, func(c domain.EmergencyContact) bool { return c.ID == id })
	}
	if !has(visible, shared.ID) || !has(visible, mine.ID) || has(visible, theirs.ID) {
		t.Fatalf("ListVisibleTo=%+v", visible)
	}

	own, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(own) != 1 || own[0].ID != mine.ID || own[0].Relationship != "wife" {
		t.Fatalf("ListByOwner=%+v", own)
	}

	got, err := repo.GetByID(ctx, shared.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Shared() || got.Availability != domain.Availability247 || got.Department != "Medical Corps" {
		t.Fatalf("GetByID=%+v", got)
	}

	if err := repo.Delete(ctx, mine.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, mine.ID); !errors.Is(err, contactrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v", err)
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(5000, 0).UTC()
	email := "alice-" + uuid.NewString() + "@example.com"
	u := domain.User{
		ID:           domain.UserID(uuid.NewString()),
		Email:        email,
		DisplayName:  "Alice",
		PasswordHash: "$argon2id$stub",
		Role:         domain.RoleOfficer,
		CreatedAt:    now,
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := u
	dup.ID = domain.UserID(uuid.NewString())
	dup.Email = "  " + strings.ToUpper(email) + " "
	if err := repo.Create(ctx, dup); !errors.Is(err, userrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate email Create err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByEmail(ctx, strings.ToUpper(email))
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID || got.Role != domain.RoleOfficer || got.Profile != nil {
		t.Fatalf("GetByEmail=%+v", got)
	}

	u.Profile = &domain.Profile{
		Rank: "Captain", Age: 35, Gender: "male", ServiceYears: 10,
		Status: domain.ServiceStatusActive, Specialization: "Infantry", Batch: "2013",
		FamilySize: 4, CurrentPosting: "Delhi",
	}
	u.DisplayName = "Alice S"
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Profile == nil || *got.Profile != *u.Profile || got.DisplayName != "Alice S" {
		t.Fatalf("GetByID=%+v", got)
	}

	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByID missing err=%v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.ContainsFunc(list, func(x domain.User) bool { return x.ID == u.ID }) {
		t.Fatalf("List missing user")
	}
}
