package listingrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/armywelfare/welfare-api/internal/adapters/postgres"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
)

// Repo is a Postgres implementation of listingrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `
	id, owner_id, owner_name, title, description, category, type,
	location, price, contact_info, images, status, created_at
`

func (r *Repo) Create(ctx context.Context, l domain.Listing) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO listings (`+selectColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		string(l.ID), string(l.OwnerID), l.OwnerName, l.Title, l.Description, l.Category,
		string(l.Type), l.Location, l.Price, l.ContactInfo, l.Images, string(l.Status),
		l.CreatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return listingrepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ListingID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return listingrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ListingID) (domain.Listing, error) {
	if r.pool == nil {
		return domain.Listing{}, errors.New("nil postgres pool")
	}
	l, err := scanListing(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM listings WHERE id = $1`, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, listingrepo.ErrNotFound
		}
		return domain.Listing{}, err
	}
	return l, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Listing, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM listings ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	var id, owner, typ, status string
	err := row.Scan(
		&id, &owner, &l.OwnerName, &l.Title, &l.Description, &l.Category, &typ,
		&l.Location, &l.Price, &l.ContactInfo, &l.Images, &status, &l.CreatedAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = domain.ListingID(id)
	l.OwnerID = domain.UserID(owner)
	l.Type = domain.ListingType(typ)
	l.Status = domain.ListingStatus(status)
	l.CreatedAt = l.CreatedAt.UTC()
	return l, nil
}
