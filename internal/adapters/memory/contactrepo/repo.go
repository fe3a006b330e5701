package contactrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
)

// Repo is an in-memory implementation of contactrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ContactID]domain.EmergencyContact
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.ContactID]domain.EmergencyContact)}
}

func (r *Repo) Create(ctx context.Context, c domain.EmergencyContact) error {
	_ = ctx
	if c.ID == "" {
		return contactrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; ok {
		return contactrepo.ErrAlreadyExists
	}
	r.byID[c.ID] = c
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ContactID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return contactrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ContactID) (domain.EmergencyContact, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.EmergencyContact{}, contactrepo.ErrNotFound
	}
	return c, nil
}

func (r *Repo) ListVisibleTo(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	return r.list(ctx, func(c domain.EmergencyContact) bool {
		return c.Shared() || (owner != "" && c.OwnerID == owner)
	})
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	return r.list(ctx, func(c domain.EmergencyContact) bool {
		return owner != "" && c.OwnerID == owner
	})
}

func (r *Repo) list(ctx context.Context, keep func(domain.EmergencyContact) bool) ([]domain.EmergencyContact, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.EmergencyContact, 0)
	for _, c := range r.byID {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
