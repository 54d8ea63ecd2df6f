// Package alerts checks recorded prices against the configured price bands.
package alerts

import (
	"context"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// Store is the alert persistence the evaluator needs.
type Store interface {
	EnabledAlertsBySymbol(ctx context.Context, symbol string) ([]models.Alert, error)
	SetAlertTrigger(ctx context.Context, key models.AlertKey, trigger bool) error
}

// Notifier is told about every alert that fires.
type Notifier interface {
	PublishAlertTriggered(ctx context.Context, alert *models.Alert, message string) error
}

// Evaluator flags alerts whose band a new price has left. A triggered alert
// stays triggered until it is reset through the API, so it fires once.
type Evaluator struct {
	store    Store
	notifier Notifier
	currency string
	log      logrus.FieldLogger
}

// NewEvaluator builds an evaluator. notifier may be nil.
func NewEvaluator(store Store, notifier Notifier, currency string, log logrus.FieldLogger) *Evaluator {
	return &Evaluator{
		store:    store,
		notifier: notifier,
		currency: currency,
		log:      log.WithField("component", "alerts"),
	}
}

// Evaluate checks price against the enabled alerts on its symbol and returns
// the alerts that fired.
func (e *Evaluator) Evaluate(ctx context.Context, price models.Price) ([]models.Alert, error) {
	candidates, err := e.store.EnabledAlertsBySymbol(ctx, price.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts for %s: %w", price.Symbol, err)
	}

	var fired []models.Alert
	for _, alert := range candidates {
		if alert.Trigger || !alert.Breached(price.Price) {
			continue
		}

		if err := e.store.SetAlertTrigger(ctx, alert.Key(), true); err != nil {
			return fired, fmt.Errorf("failed to trigger alert on %s: %w", alert.Symbol, err)
		}
		alert.Trigger = true
		fired = append(fired, alert)

		msg := Message(alert, price.Price, e.currency)
		e.log.WithFields(logrus.Fields{
			"symbol":    alert.Symbol,
			"min_price": alert.MinPrice.String(),
			"max_price": alert.MaxPrice.String(),
		}).Info(msg)

		if e.notifier != nil {
			if err := e.notifier.PublishAlertTriggered(ctx, &alert, msg); err != nil {
				e.log.WithError(err).WithField("symbol", alert.Symbol).Warn("failed to publish alert")
			}
		}
	}
	return fired, nil
}

// Message describes why an alert fired.
func Message(alert models.Alert, price decimal.Decimal, currency string) string {
	if price.LessThan(alert.MinPrice) {
		return fmt.Sprintf("%s at %s fell below %s",
			alert.Symbol, FormatMoney(price, currency), FormatMoney(alert.MinPrice, currency))
	}
	return fmt.Sprintf("%s at %s rose above %s",
		alert.Symbol, FormatMoney(price, currency), FormatMoney(alert.MaxPrice, currency))
}

// FormatMoney renders amount in the currency's display format, rounded to its
// minor unit. Unknown currency codes fall back to a plain decimal.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
