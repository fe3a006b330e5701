package marketplace

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/domain"
	clockport "github.com/armywelfare/welfare-api/internal/ports/out/clock"
	"github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
	"github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
	"github.com/armywelfare/welfare-api/internal/search"
)

type PostInput struct {
	Title       string
	Description string
	Category    string
	// Type defaults to offer when empty.
	Type        string
	Location    string
	Price       *string
	ContactInfo string
	Images      []string
}

type Service struct {
	listings listingrepo.Repository
	users    userrepo.Repository
	clk      clockport.Clock

	newListingID func() domain.ListingID
}

func NewService(listings listingrepo.Repository, users userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		listings: listings,
		users:    users,
		clk:      clk,
		newListingID: func() domain.ListingID {
			return domain.ListingID(uuid.NewString())
		},
	}
}

// SetNewListingIDForTest overrides ID generation for deterministic tests.
func (s *Service) SetNewListingIDForTest(fn func() domain.ListingID) {
	if fn != nil {
		s.newListingID = fn
	}
}

func (s *Service) Post(ctx context.Context, caller domain.Caller, in PostInput) (domain.Listing, error) {
	title := domain.NormalizeHumanName(in.Title)
	if title == "" {
		return domain.Listing{}, validation("invalid title", "title", "must be non-empty")
	}
	contact := strings.TrimSpace(in.ContactInfo)
	if contact == "" {
		return domain.Listing{}, validation("invalid contactInfo", "contactInfo", "must be non-empty")
	}
	typ := domain.ListingTypeOffer
	if in.Type != "" {
		typ = domain.ListingType(domain.NormalizeTag(in.Type))
		if !typ.Valid() {
			return domain.Listing{}, validation("invalid type", "type", "must be offer or request")
		}
	}
	category := domain.NormalizeTag(in.Category)
	if category == "" {
		return domain.Listing{}, validation("invalid category", "category", "must be non-empty")
	}
	images := domain.NormalizeSet(in.Images)
	for _, img := range images {
		u, err := url.Parse(img)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return domain.Listing{}, validation("invalid images", "images", "must be http(s) URLs")
		}
	}
	var price *string
	if in.Price != nil {
		if p := strings.TrimSpace(*in.Price); p != "" {
			price = &p
		}
	}

	owner, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.Listing{}, validation("invalid caller", "ownerId", "caller does not exist")
		}
		return domain.Listing{}, err
	}

	l := domain.Listing{
		ID:          s.newListingID(),
		OwnerID:     caller.ID,
		OwnerName:   owner.DisplayName,
		Title:       title,
		Description: in.Description,
		Category:    category,
		Type:        typ,
		Location:    domain.NormalizeHumanName(in.Location),
		Price:       price,
		ContactInfo: contact,
		Images:      images,
		Status:      domain.ListingStatusAvailable,
		CreatedAt:   s.clk.Now(),
	}
	if err := s.listings.Create(ctx, l); err != nil {
		if errors.Is(err, listingrepo.ErrAlreadyExists) {
			return domain.Listing{}, &Error{Status: 409, Code: "LISTING_ID_CONFLICT", Message: "listing id conflict"}
		}
		return domain.Listing{}, err
	}
	return l, nil
}

// List returns listings matching c, newest first. The my-items tab is
// resolved against caller.
func (s *Service) List(ctx context.Context, caller domain.Caller, c search.Criteria) ([]domain.Listing, error) {
	all, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(all, c, search.ListingFields(caller.ID)), nil
}

// Delete removes a listing. Only its owner or an admin may do so.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id domain.ListingID) error {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, listingrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	if l.OwnerID != caller.ID && caller.Role != domain.RoleAdmin {
		return &Error{Status: 403, Code: "FORBIDDEN", Message: "only the owner can delete this listing"}
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		if errors.Is(err, listingrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

func notFound() *Error {
	return &Error{Status: 404, Code: "LISTING_NOT_FOUND", Message: "listing not found"}
}

func validation(msg, field, reason string) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: msg, Details: map[string]any{field: reason}}
}
