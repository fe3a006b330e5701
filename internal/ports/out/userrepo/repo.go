package userrepo

import (
	"context"
	"errors"

	"github.com/armywelfare/welfare-api/internal/domain"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists covers both a duplicate ID and a duplicate email.
	ErrAlreadyExists = errors.New("user already exists")
)

// Repository provides access to user accounts. Emails are matched
// case-insensitively.
type Repository interface {
	Create(ctx context.Context, u domain.User) error
	Update(ctx context.Context, u domain.User) error

	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
