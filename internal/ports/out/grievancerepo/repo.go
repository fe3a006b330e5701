package grievancerepo

import (
	"context"
	"errors"

	"github.com/armywelfare/welfare-api/internal/domain"
)

var (
	ErrNotFound      = errors.New("grievance not found")
	ErrAlreadyExists = errors.New("grievance already exists")
)

// Repository provides access to persisted grievances. List methods return
// newest first (CreatedAt descending, then ID).
type Repository interface {
	Create(ctx context.Context, g domain.Grievance) error
	Update(ctx context.Context, g domain.Grievance) error

	GetByID(ctx context.Context, id domain.GrievanceID) (domain.Grievance, error)
	List(ctx context.Context) ([]domain.Grievance, error)
	ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Grievance, error)
}
