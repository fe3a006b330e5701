package schemerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/armywelfare/welfare-api/internal/adapters/postgres"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
)

// Repo is a Postgres implementation of schemerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `
	id, title, description, category,
	min_age, max_age, min_service_years,
	ranks, statuses, genders, specializations, batches,
	amount, benefits, application_process, deadline, status,
	applicants, max_applicants, created_at, updated_at
`

func (r *Repo) Create(ctx context.Context, s domain.Scheme) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO schemes (
			id, title, description, category,
			min_age, max_age, min_service_years,
			ranks, statuses, genders, specializations, batches,
			amount, benefits, application_process, deadline, status,
			applicants, max_applicants, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		string(s.ID), s.Title, s.Description, s.Category,
		s.Eligibility.MinAge, s.Eligibility.MaxAge, s.Eligibility.MinServiceYears,
		s.Eligibility.Ranks, statusStrings(s.Eligibility.Statuses), s.Eligibility.Genders,
		s.Eligibility.Specializations, s.Eligibility.Batches,
		s.Amount, s.Benefits, s.ApplicationProcess, s.Deadline, string(s.Status),
		s.Applicants, s.MaxApplicants, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return schemerepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert scheme: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, s domain.Scheme) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE schemes
		SET title = $2,
		    description = $3,
		    category = $4,
		    min_age = $5,
		    max_age = $6,
		    min_service_years = $7,
		    ranks = $8,
		    statuses = $9,
		    genders = $10,
		    specializations = $11,
		    batches = $12,
		    amount = $13,
		    benefits = $14,
		    application_process = $15,
		    deadline = $16,
		    status = $17,
		    applicants = $18,
		    max_applicants = $19,
		    updated_at = $20
		WHERE id = $1
	`,
		string(s.ID), s.Title, s.Description, s.Category,
		s.Eligibility.MinAge, s.Eligibility.MaxAge, s.Eligibility.MinServiceYears,
		s.Eligibility.Ranks, statusStrings(s.Eligibility.Statuses), s.Eligibility.Genders,
		s.Eligibility.Specializations, s.Eligibility.Batches,
		s.Amount, s.Benefits, s.ApplicationProcess, s.Deadline, string(s.Status),
		s.Applicants, s.MaxApplicants, s.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("update scheme: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return schemerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.SchemeID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM schemes WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return schemerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.SchemeID) (domain.Scheme, error) {
	if r.pool == nil {
		return domain.Scheme{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM schemes WHERE id = $1`, string(id))
	s, err := scanScheme(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Scheme{}, schemerepo.ErrNotFound
		}
		return domain.Scheme{}, err
	}
	return s, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Scheme, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, `SELECT `+selectColumns+` FROM schemes ORDER BY created_at, id`)
}

// FindEligible pushes the roster predicate into SQL. NULL bounds and NULL sets
// make the comparison NULL, which excludes the row.
func (r *Repo) FindEligible(ctx context.Context, age int, status domain.ServiceStatus, rank string) ([]domain.Scheme, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM schemes
		WHERE min_age <= $1
		  AND max_age >= $1
		  AND $2 = ANY(statuses)
		  AND $3 = ANY(ranks)
		ORDER BY created_at, id
	`, age, string(status), rank)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]domain.Scheme, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Scheme, 0)
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanScheme(row pgx.Row) (domain.Scheme, error) {
	var (
		s        domain.Scheme
		id       string
		status   string
		statuses []string
		deadline *time.Time
	)
	err := row.Scan(
		&id, &s.Title, &s.Description, &s.Category,
		&s.Eligibility.MinAge, &s.Eligibility.MaxAge, &s.Eligibility.MinServiceYears,
		&s.Eligibility.Ranks, &statuses, &s.Eligibility.Genders,
		&s.Eligibility.Specializations, &s.Eligibility.Batches,
		&s.Amount, &s.Benefits, &s.ApplicationProcess, &deadline, &status,
		&s.Applicants, &s.MaxApplicants, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Scheme{}, err
	}
	s.ID = domain.SchemeID(id)
	s.Status = domain.SchemeStatus(status)
	if statuses != nil {
		s.Eligibility.Statuses = make([]domain.ServiceStatus, len(statuses))
		for i, v := range statuses {
			s.Eligibility.Statuses[i] = domain.ServiceStatus(v)
		}
	}
	if deadline != nil {
		d := deadline.UTC()
		s.Deadline = &d
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func statusStrings(in []domain.ServiceStatus) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
