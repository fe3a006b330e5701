package listingrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
)

// Repo is an in-memory implementation of listingrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ListingID]domain.Listing
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.ListingID]domain.Listing)}
}

func (r *Repo) Create(ctx context.Context, l domain.Listing) error {
	_ = ctx
	if l.ID == "" {
		return listingrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[l.ID]; ok {
		return listingrepo.ErrAlreadyExists
	}
	r.byID[l.ID] = l.Clone()
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ListingID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return listingrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ListingID) (domain.Listing, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byID[id]
	if !ok {
		return domain.Listing{}, listingrepo.ErrNotFound
	}
	return l.Clone(), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Listing, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Listing, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
