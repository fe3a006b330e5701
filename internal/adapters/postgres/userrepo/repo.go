package userrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/armywelfare/welfare-api/internal/adapters/postgres"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
//
// Emails are matched through email_key, the trimmed lower-case form, which
// carries the unique constraint. The profile is stored as jsonb.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type profileRecord struct {
	Rank           string `json:"rank"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	ServiceYears   int    `json:"serviceYears"`
	Status         string `json:"status"`
	Specialization string `json:"specialization"`
	Batch          string `json:"batch"`
	FamilySize     int    `json:"familySize"`
	CurrentPosting string `json:"currentPosting"`
}

const selectColumns = `id, email, display_name, password_hash, role, profile, created_at`

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	profile, err := encodeProfile(u.Profile)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (id, email, email_key, display_name, password_hash, role, profile, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		string(u.ID), u.Email, emailKey(u.Email), u.DisplayName, u.PasswordHash,
		u.Role.String(), profile, u.CreatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return userrepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u domain.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	profile, err := encodeProfile(u.Profile)
	if err != nil {
		return err
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $2,
		    email_key = $3,
		    display_name = $4,
		    password_hash = $5,
		    role = $6,
		    profile = $7
		WHERE id = $1
	`,
		string(u.ID), u.Email, emailKey(u.Email), u.DisplayName, u.PasswordHash,
		u.Role.String(), profile,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return userrepo.ErrAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, string(id))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE email_key = $1`, emailKey(email))
}

func (r *Repo) getOne(ctx context.Context, sql string, arg string) (domain.User, error) {
	if r.pool == nil {
		return domain.User{}, errors.New("nil postgres pool")
	}
	u, err := scanUser(r.pool.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, userrepo.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var id, role string
	var profile []byte
	if err := row.Scan(&id, &u.Email, &u.DisplayName, &u.PasswordHash, &role, &profile, &u.CreatedAt); err != nil {
		return domain.User{}, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user %s: %w", id, err)
	}
	p, err := decodeProfile(profile)
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user %s: %w", id, err)
	}
	u.ID = domain.UserID(id)
	u.Role = parsed
	u.Profile = p
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func encodeProfile(p *domain.Profile) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(profileRecord{
		Rank:           p.Rank,
		Age:            p.Age,
		Gender:         p.Gender,
		ServiceYears:   p.ServiceYears,
		Status:         string(p.Status),
		Specialization: p.Specialization,
		Batch:          p.Batch,
		FamilySize:     p.FamilySize,
		CurrentPosting: p.CurrentPosting,
	})
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return b, nil
}

func decodeProfile(b []byte) (*domain.Profile, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var rec profileRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &domain.Profile{
		Rank:           rec.Rank,
		Age:            rec.Age,
		Gender:         rec.Gender,
		ServiceYears:   rec.ServiceYears,
		Status:         domain.ServiceStatus(rec.Status),
		Specialization: rec.Specialization,
		Batch:          rec.Batch,
		FamilySize:     rec.FamilySize,
		CurrentPosting: rec.CurrentPosting,
	}, nil
}
