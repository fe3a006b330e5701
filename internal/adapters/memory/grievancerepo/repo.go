package grievancerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
)

// Repo is an in-memory implementation of grievancerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.GrievanceID]domain.Grievance
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.GrievanceID]domain.Grievance)}
}

func (r *Repo) Create(ctx context.Context, g domain.Grievance) error {
	_ = ctx
	if g.ID == "" {
		return grievancerepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[g.ID]; ok {
		return grievancerepo.ErrAlreadyExists
	}
	r.byID[g.ID] = g
	return nil
}

func (r *Repo) Update(ctx context.Context, g domain.Grievance) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[g.ID]
	if !ok {
		return grievancerepo.ErrNotFound
	}
	// Ownership is immutable.
	g.OwnerID = existing.OwnerID
	r.byID[g.ID] = g
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.GrievanceID) (domain.Grievance, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[id]
	if !ok {
		return domain.Grievance{}, grievancerepo.ErrNotFound
	}
	return g, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Grievance, error) {
	return r.list(ctx, func(domain.Grievance) bool { return true })
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Grievance, error) {
	return r.list(ctx, func(g domain.Grievance) bool { return g.OwnerID == owner })
}

func (r *Repo) list(ctx context.Context, keep func(domain.Grievance) bool) ([]domain.Grievance, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Grievance, 0, len(r.byID))
	for _, g := range r.byID {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
