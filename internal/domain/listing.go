package domain

import "time"

type ListingType string

const (
	ListingTypeOffer   ListingType = "offer"
	ListingTypeRequest ListingType = "request"
)

func (t ListingType) Valid() bool {
	return t == ListingTypeOffer || t == ListingTypeRequest
}

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusPending   ListingStatus = "pending"
	ListingStatusCompleted ListingStatus = "completed"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusAvailable, ListingStatusPending, ListingStatusCompleted:
		return true
	}
	return false
}

// Listing is a marketplace item: a resource offered or requested by a user.
type Listing struct {
	ID        ListingID
	OwnerID   UserID
	OwnerName string

	Title       string
	Description string
	Category    string // books, equipment, housing
	Type        ListingType
	Location    string
	Price       *string // display string
	ContactInfo string
	Images      []string
	Status      ListingStatus

	CreatedAt time.Time
}

// Clone returns a deep copy of l.
func (l Listing) Clone() Listing {
	out := l
	if l.Price != nil {
		p := *l.Price
		out.Price = &p
	}
	out.Images = cloneStrings(l.Images)
	return out
}
