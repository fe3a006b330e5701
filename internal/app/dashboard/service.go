// Package dashboard assembles the role-specific landing page summary.
package dashboard

import (
	"context"
	"fmt"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/eligibility"
	"github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
	"github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
	"github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
	"github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
	"github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

type Stat struct {
	Label string
	Value int
}

type QuickAction struct {
	Title       string
	Description string
	Href        string
}

type Dashboard struct {
	Role         domain.Role
	Stats        []Stat
	QuickActions []QuickAction
}

type Repos struct {
	Schemes    schemerepo.Repository
	Users      userrepo.Repository
	Grievances grievancerepo.Repository
	Listings   listingrepo.Repository
	Contacts   contactrepo.Repository
}

type Service struct {
	repos Repos
}

func NewService(repos Repos) *Service {
	return &Service{repos: repos}
}

func (s *Service) Get(ctx context.Context, caller domain.Caller) (Dashboard, error) {
	var (
		stats []Stat
		err   error
	)
	switch caller.Role {
	case domain.RoleAdmin:
		stats, err = s.adminStats(ctx)
	case domain.RoleOfficer:
		stats, err = s.officerStats(ctx, caller)
	case domain.RolePersonnel:
		stats, err = s.personnelStats(ctx, caller)
	default:
		return Dashboard{}, fmt.Errorf("dashboard: unknown role %v", caller.Role)
	}
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Role: caller.Role, Stats: stats, QuickActions: QuickActions(caller.Role)}, nil
}

func (s *Service) adminStats(ctx context.Context) ([]Stat, error) {
	schemes, err := s.repos.Schemes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	grievances, err := s.repos.Grievances.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	listings, err := s.repos.Listings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return []Stat{
		{Label: "Total Schemes", Value: len(schemes)},
		{Label: "Active Users", Value: len(users)},
		{Label: "Pending Grievances", Value: count(grievances, func(g domain.Grievance) bool { return g.Status.Pending() })},
		{Label: "Resources Shared", Value: len(listings)},
	}, nil
}

func (s *Service) officerStats(ctx context.Context, caller domain.Caller) ([]Stat, error) {
	schemes, err := s.repos.Schemes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	grievances, err := s.repos.Grievances.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	contacts, err := s.repos.Contacts.ListVisibleTo(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return []Stat{
		{Label: "Managed Schemes", Value: count(schemes, isActive)},
		{Label: "Team Members", Value: count(users, func(u domain.User) bool { return u.Role == domain.RolePersonnel })},
		{Label: "Resolved Issues", Value: count(grievances, func(g domain.Grievance) bool { return g.Status == domain.GrievanceStatusResolved })},
		{Label: "Emergency Contacts", Value: count(contacts, domain.EmergencyContact.Shared)},
	}, nil
}

// personnelStats counts active schemes the stored profile qualifies for, or
// every active scheme when no profile is on record.
func (s *Service) personnelStats(ctx context.Context, caller domain.Caller) ([]Stat, error) {
	u, err := s.repos.Users.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", caller.ID, err)
	}
	schemes, err := s.repos.Schemes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	active := make([]domain.Scheme, 0, len(schemes))
	for _, sc := range schemes {
		if isActive(sc) {
			active = append(active, sc)
		}
	}
	available := len(active)
	if u.Profile != nil {
		available = len(eligibility.EligibleSchemes(*u.Profile, active))
	}

	mine, err := s.repos.Grievances.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	contacts, err := s.repos.Contacts.ListVisibleTo(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	listings, err := s.repos.Listings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return []Stat{
		{Label: "Available Schemes", Value: available},
		{Label: "My Grievances", Value: len(mine)},
		{Label: "Emergency Contacts", Value: len(contacts)},
		{Label: "Shared Resources", Value: count(listings, func(l domain.Listing) bool { return l.OwnerID == caller.ID })},
	}, nil
}

// QuickActions lists the navigation shortcuts for role. Admins get system
// administration ahead of the shared set.
func QuickActions(role domain.Role) []QuickAction {
	base := []QuickAction{
		{Title: "Welfare Schemes", Description: "Browse and manage welfare schemes", Href: "/welfare-schemes"},
		{Title: "Emergency Contacts", Description: "Access emergency contact network", Href: "/emergency-contacts"},
		{Title: "Resource Marketplace", Description: "Share and request resources", Href: "/marketplace"},
		{Title: "Grievance System", Description: "Submit and track complaints", Href: "/grievances"},
	}
	switch role {
	case domain.RoleAdmin:
		admin := QuickAction{Title: "System Administration", Description: "Manage users and system settings", Href: "/admin"}
		return append([]QuickAction{admin}, base...)
	case domain.RoleOfficer, domain.RolePersonnel:
		return base
	default:
		return base
	}
}

func isActive(s domain.Scheme) bool { return s.Status == domain.SchemeStatusActive }

func count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}
