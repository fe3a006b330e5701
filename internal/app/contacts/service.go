package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/domain"
	clockport "github.com/armywelfare/welfare-api/internal/ports/out/clock"
	"github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
	"github.com/armywelfare/welfare-api/internal/search"
)

type AddInput struct {
	Name         string
	Department   string
	Relationship string
	Phone        string
	Location     string
	Availability string
	Category     string
	Priority     string

	// Shared adds the contact to the directory every user sees. Admin only.
	Shared bool
}

type Service struct {
	repo contactrepo.Repository
	clk  clockport.Clock

	newContactID func() domain.ContactID
}

func NewService(repo contactrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newContactID: func() domain.ContactID {
			return domain.ContactID(uuid.NewString())
		},
	}
}

func (s *Service) SetNewContactIDForTest(fn func() domain.ContactID) {
	if fn != nil {
		s.newContactID = fn
	}
}

func (s *Service) Add(ctx context.Context, caller domain.Caller, in AddInput) (domain.EmergencyContact, error) {
	if in.Shared && caller.Role != domain.RoleAdmin {
		return domain.EmergencyContact{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "only admins can add shared contacts"}
	}
	c, verr := s.build(in)
	if verr != nil {
		return domain.EmergencyContact{}, verr
	}
	if !in.Shared {
		c.OwnerID = caller.ID
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, contactrepo.ErrAlreadyExists) {
			return domain.EmergencyContact{}, &Error{Status: 409, Code: "CONTACT_ID_CONFLICT", Message: "contact id conflict"}
		}
		return domain.EmergencyContact{}, err
	}
	return c, nil
}

func (s *Service) build(in AddInput) (domain.EmergencyContact, *Error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.EmergencyContact{}, validation("invalid name", "name", "must be non-empty")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return domain.EmergencyContact{}, validation("invalid phone", "phone", "must be non-empty")
	}
	availability := domain.Availability247
	if in.Availability != "" {
		availability = domain.Availability(domain.NormalizeTag(in.Availability))
		if !availability.Valid() {
			return domain.EmergencyContact{}, validation("invalid availability", "availability", "must be one of 24/7, business-hours, on-call")
		}
	}
	prio := domain.PriorityMedium
	if in.Priority != "" {
		prio = domain.Priority(domain.NormalizeTag(in.Priority))
		if !prio.Valid() {
			return domain.EmergencyContact{}, validation("invalid priority", "priority", "must be one of high, medium, low")
		}
	}
	category := domain.NormalizeTag(in.Category)
	if category == "" {
		category = "personal"
	}
	return domain.EmergencyContact{
		ID:           s.newContactID(),
		Name:         name,
		Department:   domain.NormalizeHumanName(in.Department),
		Relationship: domain.NormalizeHumanName(in.Relationship),
		Phone:        phone,
		Location:     domain.NormalizeHumanName(in.Location),
		Availability: availability,
		Category:     category,
		Priority:     prio,
		CreatedAt:    s.clk.Now(),
	}, nil
}

// List returns the shared directory plus the caller's own contacts that match
// c, ordered by priority then category.
func (s *Service) List(ctx context.Context, caller domain.Caller, c search.Criteria) ([]domain.EmergencyContact, error) {
	cs, err := s.repo.ListVisibleTo(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	out := search.Filter(cs, c, search.ContactFields)
	search.SortContacts(out)
	return out, nil
}

// ListForUser returns only owner's personal contacts.
func (s *Service) ListForUser(ctx context.Context, caller domain.Caller, owner domain.UserID) ([]domain.EmergencyContact, error) {
	if owner != caller.ID && caller.Role != domain.RoleAdmin {
		return nil, &Error{Status: 403, Code: "FORBIDDEN", Message: "cannot view another user's contacts"}
	}
	return s.repo.ListByOwner(ctx, owner)
}

// Delete removes a contact. Personal contacts may be removed by their owner or
// an admin; shared ones only by an admin.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id domain.ContactID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, contactrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	if caller.Role != domain.RoleAdmin && (c.Shared() || c.OwnerID != caller.ID) {
		return &Error{Status: 403, Code: "FORBIDDEN", Message: "cannot delete this contact"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, contactrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

// SeedDirectory adds the standard shared directory when none exists.
func (s *Service) SeedDirectory(ctx context.Context) (int, error) {
	existing, err := s.repo.ListVisibleTo(ctx, "")
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	for i, in := range Directory() {
		c, verr := s.build(in)
		if verr != nil {
			return n, fmt.Errorf("directory entry %d: %w", i, verr)
		}
		c.ID = domain.ContactID(fmt.Sprintf("dir-%d", i+1))
		if err := s.repo.Create(ctx, c); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Directory is the standard shared emergency directory.
func Directory() []AddInput {
	return []AddInput{
		{Name: "Emergency Medical Services", Department: "Army Medical Corps", Phone: "+91-9876543210", Location: "Base Hospital, Sector A", Availability: "24/7", Category: "medical", Priority: "high", Shared: true},
		{Name: "Security Control Room", Department: "Military Police", Phone: "+91-9876543211", Location: "Main Gate Security", Availability: "24/7", Category: "security", Priority: "high", Shared: true},
		{Name: "Fire Emergency", Department: "Fire Safety Division", Phone: "+91-9876543212", Location: "Fire Station, Central Block", Availability: "24/7", Category: "fire", Priority: "high", Shared: true},
		{Name: "Transport Emergency", Department: "Army Service Corps", Phone: "+91-9876543213", Location: "Transport Pool", Availability: "on-call", Category: "transport", Priority: "medium", Shared: true},
		{Name: "Commanding Officer", Department: "Administration", Phone: "+91-9876543214", Location: "Command Office", Availability: "business-hours", Category: "admin", Priority: "high", Shared: true},
		{Name: "Welfare Officer", Department: "Personnel Division", Phone: "+91-9876543215", Location: "Welfare Office, Block B", Availability: "business-hours", Category: "admin", Priority: "medium", Shared: true},
	}
}

func notFound() *Error {
	return &Error{Status: 404, Code: "CONTACT_NOT_FOUND", Message: "contact not found"}
}

func validation(msg, field, reason string) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: msg, Details: map[string]any{field: reason}}
}
