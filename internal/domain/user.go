package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role int

const (
	RolePersonnel Role = iota + 1
	RoleOfficer
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RolePersonnel:
		return "personnel"
	case RoleOfficer:
		return "officer"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	switch r {
	case RolePersonnel, RoleOfficer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanReviewGrievances reports whether the role may see and update every grievance.
func (r Role) CanReviewGrievances() bool {
	switch r {
	case RoleAdmin, RoleOfficer:
		return true
	case RolePersonnel:
		return false
	default:
		return false
	}
}

// ParseRole parses the wire form of a role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personnel":
		return RolePersonnel, nil
	case "officer":
		return RoleOfficer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           UserID
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role

	// Profile is the stored service record; nil when the user has not provided one.
	Profile *Profile

	CreatedAt time.Time
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	out := u
	if u.Profile != nil {
		p := *u.Profile
		out.Profile = &p
	}
	return out
}

// Caller identifies the authenticated user a service call acts for.
type Caller struct {
	ID   UserID
	Role Role
}
