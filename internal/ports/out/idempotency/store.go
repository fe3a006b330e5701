package idempotency

import (
	"context"
	"time"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request for idempotency purposes: key, caller,
// method, route template and a hash of the canonical body.
//
// A fingerprint with an empty BodyHash is the meta record for a key; its Body
// holds the hash of the first payload seen, so reuse with a different payload
// can be rejected.
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is a stored response replayed for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
