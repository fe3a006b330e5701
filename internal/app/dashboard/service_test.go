package dashboard_test

import (
	"context"
	"testing"
	"time"

	memcontactrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/contactrepo"
	memgrievancerepo "github.com/armywelfare/welfare-api/internal/adapters/memory/grievancerepo"
	memlistingrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/listingrepo"
	memschemerepo "github.com/armywelfare/welfare-api/internal/adapters/memory/schemerepo"
	memuserrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/userrepo"
	"github.com/armywelfare/welfare-api/internal/app/dashboard"
	"github.com/armywelfare/welfare-api/internal/domain"
)

var (
	admin    = domain.Caller{ID: "u-admin", Role: domain.RoleAdmin}
	officer  = domain.Caller{ID: "u-officer", Role: domain.RoleOfficer}
	young    = domain.Caller{ID: "u-young", Role: domain.RolePersonnel}
	noRecord = domain.Caller{ID: "u-norecord", Role: domain.RolePersonnel}
)

func newService(t *testing.T) *dashboard.Service {
	t.Helper()
	ctx := context.Background()
	at := time.Unix(1000, 0).UTC()
	repos := dashboard.Repos{
		Schemes:    memschemerepo.NewRepo(),
		Users:      memuserrepo.NewRepo(),
		Grievances: memgrievancerepo.NewRepo(),
		Listings:   memlistingrepo.NewRepo(),
		Contacts:   memcontactrepo.NewRepo(),
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	must(repos.Schemes.Create(ctx, domain.Scheme{ID: "s1", Title: "Senior Housing", Status: domain.SchemeStatusActive, Eligibility: domain.EligibilityRule{MinAge: domain.IntPtr(30)}, CreatedAt: at}))
	must(repos.Schemes.Create(ctx, domain.Scheme{ID: "s2", Title: "Open Scheme", Status: domain.SchemeStatusActive, CreatedAt: at.Add(time.Second)}))
	must(repos.Schemes.Create(ctx, domain.Scheme{ID: "s3", Title: "Closed Scheme", Status: domain.SchemeStatusClosed, CreatedAt: at.Add(2 * time.Second)}))

	profile := &domain.Profile{Rank: "Lieutenant", Age: 25, ServiceYears: 2, Status: domain.ServiceStatusActive}
	for i, u := range []domain.User{
		{ID: admin.ID, Email: "admin@x.example", Role: admin.Role},
		{ID: officer.ID, Email: "officer@x.example", Role: officer.Role},
		{ID: young.ID, Email: "young@x.example", Role: young.Role, Profile: profile},
		{ID: noRecord.ID, Email: "norecord@x.example", Role: noRecord.Role},
	} {
		u.DisplayName = string(u.ID)
		u.PasswordHash = "x"
		u.CreatedAt = at.Add(time.Duration(i) * time.Second)
		must(repos.Users.Create(ctx, u))
	}

	must(repos.Grievances.Create(ctx, domain.Grievance{ID: "g1", OwnerID: young.ID, Status: domain.GrievanceStatusSubmitted, CreatedAt: at}))
	must(repos.Grievances.Create(ctx, domain.Grievance{ID: "g2", OwnerID: young.ID, Status: domain.GrievanceStatusResolved, CreatedAt: at}))
	must(repos.Grievances.Create(ctx, domain.Grievance{ID: "g3", OwnerID: noRecord.ID, Status: domain.GrievanceStatusUnderReview, CreatedAt: at}))

	must(repos.Listings.Create(ctx, domain.Listing{ID: "l1", OwnerID: young.ID, CreatedAt: at}))
	must(repos.Listings.Create(ctx, domain.Listing{ID: "l2", OwnerID: noRecord.ID, CreatedAt: at}))

	must(repos.Contacts.Create(ctx, domain.EmergencyContact{ID: "c1", Name: "Hospital", CreatedAt: at}))
	must(repos.Contacts.Create(ctx, domain.EmergencyContact{ID: "c2", Name: "MP Unit", CreatedAt: at}))
	must(repos.Contacts.Create(ctx, domain.EmergencyContact{ID: "c3", OwnerID: young.ID, Name: "Mother", CreatedAt: at}))
	must(repos.Contacts.Create(ctx, domain.EmergencyContact{ID: "c4", OwnerID: officer.ID, Name: "Spouse", CreatedAt: at}))

	return dashboard.NewService(repos)
}

func statValues(t *testing.T, d dashboard.Dashboard) map[string]int {
	t.Helper()
	out := make(map[string]int, len(d.Stats))
	for _, s := range d.Stats {
		out[s.Label] = s.Value
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 stats, got %+v", d.Stats)
	}
	return out
}

func TestService_Get_PerRole(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	cases := []struct {
		caller domain.Caller
		want   map[string]int
	}{
		{admin, map[string]int{"Total Schemes": 3, "Active Users": 4, "Pending Grievances": 2, "Resources Shared": 2}},
		{officer, map[string]int{"Managed Schemes": 2, "Team Members": 2, "Resolved Issues": 1, "Emergency Contacts": 2}},
		{young, map[string]int{"Available Schemes": 1, "My Grievances": 2, "Emergency Contacts": 3, "Shared Resources": 1}},
		{noRecord, map[string]int{"Available Schemes": 2, "My Grievances": 1, "Emergency Contacts": 2, "Shared Resources": 1}},
	}
	for _, tc := range cases {
		d, err := svc.Get(context.Background(), tc.caller)
		if err != nil {
			t.Fatalf("Get(%s): %v", tc.caller.ID, err)
		}
		got := statValues(t, d)
		for label, want := range tc.want {
			if got[label] != want {
				t.Fatalf("%s: %s=%d want %d (all=%v)", tc.caller.ID, label, got[label], want, got)
			}
		}
	}
}

func TestQuickActions(t *testing.T) {
	t.Parallel()

	adminActions := dashboard.QuickActions(domain.RoleAdmin)
	if len(adminActions) != 5 || adminActions[0].Href != "/admin" {
		t.Fatalf("admin actions=%+v", adminActions)
	}
	for _, r := range []domain.Role{domain.RoleOfficer, domain.RolePersonnel} {
		got := dashboard.QuickActions(r)
		if len(got) != 4 || got[0].Title != "Welfare Schemes" || got[3].Href != "/grievances" {
			t.Fatalf("%v actions=%+v", r, got)
		}
	}
}

func TestService_Get_UnknownRole(t *testing.T) {
	t.Parallel()

	if _, err := newService(t).Get(context.Background(), domain.Caller{ID: "x", Role: domain.Role(99)}); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
