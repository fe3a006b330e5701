package grievancerepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/armywelfare/welfare-api/internal/adapters/postgres"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
)

// Repo is a Postgres implementation of grievancerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `id, owner_id, title, description, category, priority, status, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, g domain.Grievance) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO grievances (`+selectColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		string(g.ID), string(g.OwnerID), g.Title, g.Description, g.Category,
		string(g.Priority), string(g.Status), g.CreatedAt.UTC(), g.UpdatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return grievancerepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert grievance: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields. The owner is never changed.
func (r *Repo) Update(ctx context.Context, g domain.Grievance) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE grievances
		SET title = $2,
		    description = $3,
		    category = $4,
		    priority = $5,
		    status = $6,
		    updated_at = $7
		WHERE id = $1
	`,
		string(g.ID), g.Title, g.Description, g.Category,
		string(g.Priority), string(g.Status), g.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("update grievance: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return grievancerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.GrievanceID) (domain.Grievance, error) {
	if r.pool == nil {
		return domain.Grievance{}, errors.New("nil postgres pool")
	}
	g, err := scanGrievance(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM grievances WHERE id = $1`, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Grievance{}, grievancerepo.ErrNotFound
		}
		return domain.Grievance{}, err
	}
	return g, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Grievance, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM grievances ORDER BY created_at DESC, id`)
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Grievance, error) {
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM grievances
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`, string(owner))
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]domain.Grievance, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Grievance, 0)
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGrievance(row pgx.Row) (domain.Grievance, error) {
	var g domain.Grievance
	var id, owner, prio, status string
	if err := row.Scan(&id, &owner, &g.Title, &g.Description, &g.Category, &prio, &status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return domain.Grievance{}, err
	}
	g.ID = domain.GrievanceID(id)
	g.OwnerID = domain.UserID(owner)
	g.Priority = domain.Priority(prio)
	g.Status = domain.GrievanceStatus(status)
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}
