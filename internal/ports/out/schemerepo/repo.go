package schemerepo

import (
	"context"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// Repository provides access to persisted schemes.
//
// List returns schemes ordered by CreatedAt ascending, then ID, so repeated
// calls over unchanged data are stable.
type Repository interface {
	Create(ctx context.Context, s domain.Scheme) error
	Update(ctx context.Context, s domain.Scheme) error
	Delete(ctx context.Context, id domain.SchemeID) error

	GetByID(ctx context.Context, id domain.SchemeID) (domain.Scheme, error)
	List(ctx context.Context) ([]domain.Scheme, error)

	// FindEligible runs the roster query: a scheme matches iff it has both age
	// bounds with min <= age <= max, its status set contains status, and its rank
	// set contains rank. Absent bounds or sets never match. Ordering follows List.
	FindEligible(ctx context.Context, age int, status domain.ServiceStatus, rank string) ([]domain.Scheme, error)
}
