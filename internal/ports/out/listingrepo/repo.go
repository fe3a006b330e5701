package listingrepo

import (
	"context"
	"errors"

	"github.com/armywelfare/welfare-api/internal/domain"
)

var (
	ErrNotFound      = errors.New("listing not found")
	ErrAlreadyExists = errors.New("listing already exists")
)

// Repository provides access to marketplace listings, newest first.
type Repository interface {
	Create(ctx context.Context, l domain.Listing) error
	Delete(ctx context.Context, id domain.ListingID) error

	GetByID(ctx context.Context, id domain.ListingID) (domain.Listing, error)
	List(ctx context.Context) ([]domain.Listing, error)
}
