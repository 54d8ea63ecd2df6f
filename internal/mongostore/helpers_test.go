package mongostore

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// TestStore wraps a Store backed by a throwaway MongoDB container
type TestStore struct {
	*Store
	container *mongodb.MongoDBContainer
}

// SetupTestStore starts MongoDB and connects a Store to a fresh database
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	s, err := Connect(ctx, uri, "portfolio_test")
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("failed to connect to test mongodb: %v", err)
	}

	return &TestStore{Store: s, container: container}
}

// Cleanup disconnects and terminates the container
func (ts *TestStore) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if ts.Store != nil {
		ts.Store.Close(ctx)
	}
	if err := ts.container.Terminate(ctx); err != nil {
		t.Errorf("failed to terminate container: %v", err)
	}
}

// DropAll removes every document for test isolation
func (ts *TestStore) DropAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	for _, name := range []string{CollectionTrades, CollectionPrices, CollectionAlerts, CollectionStocks} {
		if _, err := ts.collection(name).DeleteMany(ctx, map[string]interface{}{}); err != nil {
			t.Fatalf("failed to clear collection %s: %v", name, err)
		}
	}
}
