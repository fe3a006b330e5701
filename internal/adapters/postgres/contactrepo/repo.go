package contactrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/armywelfare/welfare-api/internal/adapters/postgres"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
)

// Repo is a Postgres implementation of contactrepo.Repository.
// Shared directory entries are stored with an empty owner_id.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `
	id, owner_id, name, department, relationship, phone,
	location, availability, category, priority, created_at
`

func (r *Repo) Create(ctx context.Context, c domain.EmergencyContact) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO emergency_contacts (`+selectColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		string(c.ID), string(c.OwnerID), c.Name, c.Department, c.Relationship, c.Phone,
		c.Location, string(c.Availability), c.Category, string(c.Priority), c.CreatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return contactrepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ContactID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM emergency_contacts WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return contactrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ContactID) (domain.EmergencyContact, error) {
	if r.pool == nil {
		return domain.EmergencyContact{}, errors.New("nil postgres pool")
	}
	c, err := scanContact(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM emergency_contacts WHERE id = $1`, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EmergencyContact{}, contactrepo.ErrNotFound
		}
		return domain.EmergencyContact{}, err
	}
	return c, nil
}

func (r *Repo) ListVisibleTo(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM emergency_contacts
		WHERE owner_id = '' OR owner_id = $1
		ORDER BY created_at, id
	`, string(owner))
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM emergency_contacts
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, string(owner))
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]domain.EmergencyContact, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.EmergencyContact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanContact(row pgx.Row) (domain.EmergencyContact, error) {
	var c domain.EmergencyContact
	var id, owner, availability, prio string
	err := row.Scan(
		&id, &owner, &c.Name, &c.Department, &c.Relationship, &c.Phone,
		&c.Location, &availability, &c.Category, &prio, &c.CreatedAt,
	)
	if err != nil {
		return domain.EmergencyContact{}, err
	}
	c.ID = domain.ContactID(id)
	c.OwnerID = domain.UserID(owner)
	c.Availability = domain.Availability(availability)
	c.Priority = domain.Priority(prio)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}
