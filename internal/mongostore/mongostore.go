// Package mongostore is the MongoDB implementation of store.Store.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/trogers1052/portfolio-tracker/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CollectionPrices = "prices"
	CollectionTrades = "trades"
	CollectionAlerts = "alerts"
	CollectionStocks = "stocks"
)

var _ store.Store = (*Store)(nil)

// Store keeps the ledger, prices, alerts and stock metadata in one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, verifies it with a ping and ensures indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().ApplyURI(uri).SetRegistry(Registry())
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the lookup indexes. It is safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionPrices: {{Keys: bson.D{{Key: "symbol", Value: 1}, {Key: "fetched_at", Value: -1}}}},
		CollectionTrades: {{Keys: bson.D{{Key: "symbol", Value: 1}, {Key: "trade_date", Value: -1}}}},
		CollectionAlerts: {{Keys: bson.D{{Key: "symbol", Value: 1}}}},
		CollectionStocks: {{Keys: bson.D{{Key: "symbol", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Database exposes the underlying database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// objectID parses a hex id. Malformed ids address nothing.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

// insertedID converts the driver-generated _id back to its hex form.
func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}
