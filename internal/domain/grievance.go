package domain

import "time"

type GrievanceStatus string

const (
	GrievanceStatusSubmitted   GrievanceStatus = "submitted"
	GrievanceStatusUnderReview GrievanceStatus = "under-review"
	GrievanceStatusResolved    GrievanceStatus = "resolved"
)

func (s GrievanceStatus) Valid() bool {
	switch s {
	case GrievanceStatusSubmitted, GrievanceStatusUnderReview, GrievanceStatusResolved:
		return true
	}
	return false
}

// Pending reports whether the grievance still awaits resolution.
func (s GrievanceStatus) Pending() bool {
	return s == GrievanceStatusSubmitted || s == GrievanceStatusUnderReview
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities for sorting: high=0, medium=1, low=2. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type Grievance struct {
	ID      GrievanceID
	OwnerID UserID

	Title       string
	Description string
	Category    string
	Priority    Priority
	Status      GrievanceStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
