package schemerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/eligibility"
	"github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
)

// Repo is an in-memory implementation of schemerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.SchemeID]domain.Scheme
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.SchemeID]domain.Scheme)}
}

func (r *Repo) Create(ctx context.Context, s domain.Scheme) error {
	_ = ctx
	if s.ID == "" {
		return schemerepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; ok {
		return schemerepo.ErrAlreadyExists
	}
	r.byID[s.ID] = s.Clone()
	return nil
}

func (r *Repo) Update(ctx context.Context, s domain.Scheme) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; !ok {
		return schemerepo.ErrNotFound
	}
	r.byID[s.ID] = s.Clone()
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.SchemeID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return schemerepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.SchemeID) (domain.Scheme, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.Scheme{}, schemerepo.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Scheme, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Scheme, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s.Clone())
	}
	sortSchemes(out)
	return out, nil
}

// FindEligible applies the roster evaluator over the stored schemes.
func (r *Repo) FindEligible(ctx context.Context, age int, status domain.ServiceStatus, rank string) ([]domain.Scheme, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	p := domain.Profile{Age: age, Status: status, Rank: rank}
	return eligibility.Select(eligibility.Roster, p, all), nil
}

func sortSchemes(ss []domain.Scheme) {
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].CreatedAt.Equal(ss[j].CreatedAt) {
			return ss[i].ID < ss[j].ID
		}
		return ss[i].CreatedAt.Before(ss[j].CreatedAt)
	})
}
