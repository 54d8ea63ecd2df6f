package mongostore

import (
	"context"
	"fmt"

	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateAlert(ctx context.Context, a *models.Alert) error {
	a.ID = ""
	res, err := s.collection(CollectionAlerts).InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	a.ID = insertedID(res)
	return nil
}

func (s *Store) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.findAlerts(ctx, bson.M{})
}

func (s *Store) EnabledAlertsBySymbol(ctx context.Context, symbol string) ([]models.Alert, error) {
	return s.findAlerts(ctx, bson.M{"symbol": symbol, "enabled": true})
}

func (s *Store) SetAlertEnabled(ctx context.Context, key models.AlertKey, enabled bool) error {
	return s.updateAlert(ctx, key, bson.M{"enabled": enabled})
}

func (s *Store) SetAlertTrigger(ctx context.Context, key models.AlertKey, trigger bool) error {
	return s.updateAlert(ctx, key, bson.M{"trigger": trigger})
}

func (s *Store) DeleteAlert(ctx context.Context, key models.AlertKey) error {
	res, err := s.collection(CollectionAlerts).DeleteOne(ctx, keyFilter(key))
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// updateAlert modifies the first alert matching key.
func (s *Store) updateAlert(ctx context.Context, key models.AlertKey, set bson.M) error {
	res, err := s.collection(CollectionAlerts).UpdateOne(ctx, keyFilter(key), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) findAlerts(ctx context.Context, filter bson.M) ([]models.Alert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.collection(CollectionAlerts).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	alerts := []models.Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}

// keyFilter matches numerically, so 90 and 90.00 address the same alert.
func keyFilter(key models.AlertKey) bson.M {
	return bson.M{"symbol": key.Symbol, "min_price": key.MinPrice, "max_price": key.MaxPrice}
}
