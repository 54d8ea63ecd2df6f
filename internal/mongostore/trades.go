package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateTrade(ctx context.Context, t *models.Trade) error {
	t.ID = ""
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := s.collection(CollectionTrades).InsertOne(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	t.ID = insertedID(res)
	return nil
}

func (s *Store) ListTrades(ctx context.Context, f store.TradeFilter) ([]models.Trade, error) {
	filter := bson.M{}
	if f.Symbol != "" {
		filter["symbol"] = f.Symbol
	}
	dateRange := bson.M{}
	if !f.StartDate.IsZero() {
		dateRange["$gte"] = f.StartDate
	}
	if !f.EndDate.IsZero() {
		dateRange["$lte"] = f.EndDate
	}
	if len(dateRange) > 0 {
		filter["trade_date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "trade_date", Value: -1}, {Key: "_id", Value: -1}})
	return s.findTrades(ctx, filter, opts)
}

func (s *Store) AllTrades(ctx context.Context) ([]models.Trade, error) {
	opts := options.Find().SetSort(bson.D{{Key: "trade_date", Value: 1}, {Key: "_id", Value: 1}})
	return s.findTrades(ctx, bson.M{}, opts)
}

func (s *Store) DeleteTrade(ctx context.Context, id string) (*models.Trade, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var t models.Trade
	err = s.collection(CollectionTrades).FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete trade: %w", err)
	}
	return &t, nil
}

func (s *Store) findTrades(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Trade, error) {
	cursor, err := s.collection(CollectionTrades).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	trades := []models.Trade{}
	if err := cursor.All(ctx, &trades); err != nil {
		return nil, fmt.Errorf("failed to decode trades: %w", err)
	}
	return trades, nil
}
