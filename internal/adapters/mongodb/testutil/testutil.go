// Package testutil opens a MongoDB database for adapter tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/armywelfare/welfare-api/internal/adapters/mongodb"
)

// OpenDatabase connects to TEST_MONGO_URI and returns the test database
// (TEST_MONGO_DB, default welfare_test). The test is skipped when the URI is
// unset. Collections are shared between packages, so suites must only assert
// on documents they created.
func OpenDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo tests")
	}
	name := os.Getenv("TEST_MONGO_DB")
	if name == "" {
		name = "welfare_test"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, uri, name)
	if err != nil {
		t.Fatalf("open mongo: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return db
}
