package domain

import "time"

type Availability string

const (
	Availability247           Availability = "24/7"
	AvailabilityBusinessHours Availability = "business-hours"
	AvailabilityOnCall        Availability = "on-call"
)

func (a Availability) Valid() bool {
	switch a {
	case Availability247, AvailabilityBusinessHours, AvailabilityOnCall:
		return true
	}
	return false
}

// EmergencyContact is either a shared directory entry (OwnerID empty) or a
// personal contact owned by one user.
type EmergencyContact struct {
	ID      ContactID
	OwnerID UserID

	Name         string
	Department   string
	Relationship string
	Phone        string
	Location     string
	Availability Availability
	Category     string // medical, security, fire, transport, admin, personal
	Priority     Priority

	CreatedAt time.Time
}

// Shared reports whether the contact is part of the shared directory.
func (c EmergencyContact) Shared() bool { return c.OwnerID == "" }
