package idempotency

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/armywelfare/welfare-api/internal/adapters/mongodb"
	"github.com/armywelfare/welfare-api/internal/ports/out/idempotency"
)

// Store is a MongoDB implementation of idempotency.Store. The whole
// fingerprint is the document _id.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(mongodb.IdempotencyCollection), now: time.Now}
}

type fingerprintKey struct {
	Key      string `bson:"key"`
	Subject  string `bson:"subject"`
	Method   string `bson:"method"`
	Route    string `bson:"route"`
	BodyHash string `bson:"body_hash"`
}

type record struct {
	ID          fingerprintKey `bson:"_id"`
	StatusCode  int            `bson:"status_code"`
	ContentType string         `bson:"content_type"`
	Body        []byte         `bson:"body"`
	CreatedAt   time.Time      `bson:"created_at"`
}

func keyOf(fp idempotency.Fingerprint) fingerprintKey {
	return fingerprintKey{
		Key:      string(fp.Key),
		Subject:  string(fp.Subject),
		Method:   fp.Method,
		Route:    fp.Route,
		BodyHash: fp.BodyHash,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	var rec record
	if err := s.coll.FindOne(ctx, bson.M{"_id": keyOf(fp)}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return idempotency.Record{}, false, nil
		}
		return idempotency.Record{}, false, err
	}
	return idempotency.Record{
		StatusCode:  rec.StatusCode,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		CreatedAt:   rec.CreatedAt.UTC(),
	}, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	key := keyOf(fp)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, record{
		ID:          key,
		StatusCode:  rec.StatusCode,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		CreatedAt:   createdAt.UTC(),
	}, options.Replace().SetUpsert(true))
	return err
}
