// Package mongodb holds the shared driver plumbing for the MongoDB repositories.
//
// Documents use string _id values so the same identifiers flow through every
// backend. Absent eligibility constraints are stored as BSON null, which no
// range or membership query matches.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names.
const (
	SchemesCollection     = "schemes"
	UsersCollection       = "users"
	GrievancesCollection  = "grievances"
	ListingsCollection    = "listings"
	ContactsCollection    = "emergency_contacts"
	IdempotencyCollection = "idempotency_keys"
)

// Connect opens a client for uri, pings the primary and ensures indexes on
// the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	if uri == "" {
		return nil, nil, errors.New("MONGO_URI is required when STORAGE_BACKEND=mongo")
	}
	if database == "" {
		return nil, nil, errors.New("mongo database name is required")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, db, nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// call repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	models := map[string][]mongo.IndexModel{
		SchemesCollection: {
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		},
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email_key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		GrievancesCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		ContactsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
	}
	for name, idx := range models {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// IsDuplicateKey reports whether err is a duplicate key write error.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// ByCreated sorts ascending by creation time with _id as the tie-breaker.
func ByCreated() bson.D {
	return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
}

// ByCreatedDesc sorts newest first with _id as the tie-breaker.
func ByCreatedDesc() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
}
