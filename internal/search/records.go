package search

import (
	"cmp"
	"slices"

	"github.com/armywelfare/welfare-api/internal/domain"
)

var SchemeFields = Fields[domain.Scheme]{
	Text:     func(s domain.Scheme) []string { return []string{s.Title, s.Description} },
	Category: func(s domain.Scheme) string { return s.Category },
	Status:   func(s domain.Scheme) string { return string(s.Status) },
}

// Grievance tabs.
const (
	TabPending  = "pending"
	TabResolved = "resolved"
)

var GrievanceFields = Fields[domain.Grievance]{
	Text:     func(g domain.Grievance) []string { return []string{g.Title, g.Description} },
	Category: func(g domain.Grievance) string { return g.Category },
	Status:   func(g domain.Grievance) string { return string(g.Status) },
	Tab: func(g domain.Grievance, tab string) bool {
		switch tab {
		case TabPending:
			return g.Status.Pending()
		case TabResolved:
			return g.Status == domain.GrievanceStatusResolved
		default:
			return false
		}
	},
}

// Marketplace tabs. Any other tab value is compared against the listing category.
const (
	TabOffers   = "offers"
	TabRequests = "requests"
	TabMyItems  = "my-items"
)

// ListingFields returns the listing descriptor for a caller; the my-items tab
// selects listings owned by caller.
func ListingFields(caller domain.UserID) Fields[domain.Listing] {
	return Fields[domain.Listing]{
		Text:     func(l domain.Listing) []string { return []string{l.Title, l.Description} },
		Category: func(l domain.Listing) string { return l.Category },
		Status:   func(l domain.Listing) string { return string(l.Status) },
		Tab: func(l domain.Listing, tab string) bool {
			switch tab {
			case TabOffers:
				return l.Type == domain.ListingTypeOffer
			case TabRequests:
				return l.Type == domain.ListingTypeRequest
			case TabMyItems:
				return caller != "" && l.OwnerID == caller
			default:
				return l.Category == tab
			}
		},
	}
}

var ContactFields = Fields[domain.EmergencyContact]{
	Text: func(c domain.EmergencyContact) []string {
		return []string{c.Name, c.Department, c.Category}
	},
	Category: func(c domain.EmergencyContact) string { return c.Category },
}

// SortContacts orders contacts by priority (high first) then category
// ascending. Equal keys keep their input order.
func SortContacts(cs []domain.EmergencyContact) {
	slices.SortStableFunc(cs, func(a, b domain.EmergencyContact) int {
		if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
}
