package idempotency

import (
	"context"
	"sync"

	"github.com/armywelfare/welfare-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store. Bodies are copied
// on the way in and out. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	recs map[idempotency.Fingerprint]idempotency.Record
}

func NewStore() *Store {
	return &Store{recs: make(map[idempotency.Fingerprint]idempotency.Record)}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[fp] = cloneRecord(rec)
	return nil
}

func cloneRecord(rec idempotency.Record) idempotency.Record {
	out := rec
	out.Body = append([]byte(nil), rec.Body...)
	return out
}
