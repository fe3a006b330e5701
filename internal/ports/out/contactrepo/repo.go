package contactrepo

import (
	"context"
	"errors"

	"github.com/armywelfare/welfare-api/internal/domain"
)

var (
	ErrNotFound      = errors.New("contact not found")
	ErrAlreadyExists = errors.New("contact already exists")
)

// Repository provides access to emergency contacts. Results are ordered by
// CreatedAt ascending, then ID; priority ordering is applied by callers.
type Repository interface {
	Create(ctx context.Context, c domain.EmergencyContact) error
	Delete(ctx context.Context, id domain.ContactID) error

	GetByID(ctx context.Context, id domain.ContactID) (domain.EmergencyContact, error)

	// ListVisibleTo returns the shared directory plus contacts owned by owner.
	ListVisibleTo(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error)
	// ListByOwner returns only contacts owned by owner.
	ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error)
}
