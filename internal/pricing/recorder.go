// Package pricing records price snapshots and runs the work that follows a
// new price.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// Store persists snapshots.
type Store interface {
	CreatePrice(ctx context.Context, p *models.Price) error
	PriceExists(ctx context.Context, symbol string, fetchedAt time.Time) (bool, error)
}

// Invalidator drops a symbol's cached latest price.
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// AlertEvaluator checks a new price against the alert bands.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, price models.Price) ([]models.Alert, error)
}

// Publisher announces recorded prices.
type Publisher interface {
	PublishPriceRecorded(ctx context.Context, price *models.Price) error
}

// Recorder stores a price, then invalidates the cache, evaluates alerts and
// publishes the change. Only the store write is fatal; follow-up failures
// are logged. Any dependency other than the store may be nil.
type Recorder struct {
	store     Store
	cache     Invalidator
	alerts    AlertEvaluator
	publisher Publisher
	log       logrus.FieldLogger
}

// NewRecorder builds a Recorder.
func NewRecorder(store Store, cache Invalidator, alerts AlertEvaluator, publisher Publisher, log logrus.FieldLogger) *Recorder {
	return &Recorder{
		store:     store,
		cache:     cache,
		alerts:    alerts,
		publisher: publisher,
		log:       log.WithField("component", "pricing"),
	}
}

// PriceExists reports whether a snapshot was already recorded.
func (r *Recorder) PriceExists(ctx context.Context, symbol string, fetchedAt time.Time) (bool, error) {
	return r.store.PriceExists(ctx, symbol, fetchedAt)
}

// RecordPrice appends p to the price history.
func (r *Recorder) RecordPrice(ctx context.Context, p *models.Price) error {
	if err := r.store.CreatePrice(ctx, p); err != nil {
		return fmt.Errorf("failed to save price: %w", err)
	}
	log := r.log.WithField("symbol", p.Symbol)

	if r.cache != nil {
		if err := r.cache.Invalidate(ctx, p.Symbol); err != nil {
			log.WithError(err).Warn("failed to invalidate cached price")
		}
	}
	if r.alerts != nil {
		if _, err := r.alerts.Evaluate(ctx, *p); err != nil {
			log.WithError(err).Error("failed to evaluate alerts")
		}
	}
	if r.publisher != nil {
		if err := r.publisher.PublishPriceRecorded(ctx, p); err != nil {
			log.WithError(err).Warn("failed to publish price")
		}
	}
	return nil
}
