package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertStock inserts an empty metadata document for symbol unless one exists.
func (s *Store) UpsertStock(ctx context.Context, symbol string) (*models.Stock, error) {
	empty := models.NewStock(symbol)
	update := bson.M{"$setOnInsert": bson.M{
		"payouts":    empty.Payouts,
		"financials": empty.Financials,
		"ratios":     empty.Ratios,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	stock := models.NewStock(symbol)
	err := s.collection(CollectionStocks).FindOneAndUpdate(ctx, bson.M{"symbol": symbol}, update, opts).Decode(stock)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert stock: %w", err)
	}
	return stock, nil
}

// SaveStock replaces the metadata document for the stock's symbol.
func (s *Store) SaveStock(ctx context.Context, stock *models.Stock) error {
	stock.ID = ""
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection(CollectionStocks).ReplaceOne(ctx, bson.M{"symbol": stock.Symbol}, stock, opts); err != nil {
		return fmt.Errorf("failed to save stock: %w", err)
	}
	return nil
}

func (s *Store) ListStocks(ctx context.Context) ([]models.Stock, error) {
	opts := options.Find().SetSort(bson.D{{Key: "symbol", Value: 1}})
	cursor, err := s.collection(CollectionStocks).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	stocks := []models.Stock{}
	if err := cursor.All(ctx, &stocks); err != nil {
		return nil, fmt.Errorf("failed to decode stocks: %w", err)
	}
	return stocks, nil
}

func (s *Store) ListStockSymbols(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "symbol", Value: 1}}).
		SetProjection(bson.M{"symbol": 1, "_id": 0})
	cursor, err := s.collection(CollectionStocks).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock symbols: %w", err)
	}
	var docs []struct {
		Symbol string `bson:"symbol"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode stock symbols: %w", err)
	}
	symbols := make([]string, len(docs))
	for i, d := range docs {
		symbols[i] = d.Symbol
	}
	return symbols, nil
}

func (s *Store) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	stock := models.NewStock(symbol)
	err := s.collection(CollectionStocks).FindOne(ctx, bson.M{"symbol": symbol}).Decode(stock)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return stock, nil
}

func (s *Store) DeleteStock(ctx context.Context, symbol string) error {
	res, err := s.collection(CollectionStocks).DeleteOne(ctx, bson.M{"symbol": symbol})
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
