package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreatePrice(ctx context.Context, p *models.Price) error {
	p.ID = ""
	res, err := s.collection(CollectionPrices).InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to create price: %w", err)
	}
	p.ID = insertedID(res)
	return nil
}

func (s *Store) ListPrices(ctx context.Context, f store.PriceFilter) ([]models.Price, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = store.DefaultPriceHistoryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection(CollectionPrices).Find(ctx, symbolFilter(f.Symbols), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	prices := []models.Price{}
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode prices: %w", err)
	}
	return prices, nil
}

// LatestPrices groups snapshots by symbol and keeps the newest of each.
func (s *Store) LatestPrices(ctx context.Context, symbols []string) (map[string]models.Price, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: symbolFilter(symbols)}},
		{{Key: "$sort", Value: bson.D{{Key: "fetched_at", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$symbol"},
			{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$doc"}}}},
	}

	cursor, err := s.collection(CollectionPrices).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate latest prices: %w", err)
	}
	var prices []models.Price
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode latest prices: %w", err)
	}

	latest := make(map[string]models.Price, len(prices))
	for _, p := range prices {
		latest[p.Symbol] = p
	}
	return latest, nil
}

func (s *Store) PriceExists(ctx context.Context, symbol string, fetchedAt time.Time) (bool, error) {
	filter := bson.M{"symbol": symbol, "fetched_at": fetchedAt}
	n, err := s.collection(CollectionPrices).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check price: %w", err)
	}
	return n > 0, nil
}

func symbolFilter(symbols []string) bson.M {
	if len(symbols) == 0 {
		return bson.M{}
	}
	return bson.M{"symbol": bson.M{"$in": symbols}}
}
