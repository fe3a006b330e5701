package domain

// SubjectID is the authenticated subject carried by a bearer token.
// It is the string form of a UserID for tokens this service issues.
type SubjectID string

// UserID is an internal identifier for a user account.
type UserID string

// SchemeID is an internal identifier for a welfare scheme.
type SchemeID string

// GrievanceID is an internal identifier for a grievance record.
type GrievanceID string

// ListingID is an internal identifier for a marketplace listing.
type ListingID string

// ContactID is an internal identifier for an emergency contact.
type ContactID string
