package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// PriceRepository defines what the consumer needs to ingest price snapshots
type PriceRepository interface {
	PriceExists(ctx context.Context, symbol string, fetchedAt time.Time) (bool, error)
	RecordPrice(ctx context.Context, p *models.Price) error
}

// messageReader is the subset of *kafka.Reader the consumer needs
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer ingests PRICE_FETCHED events published by the external price
// fetcher. Redelivered events are detected by (symbol, fetched_at) and skipped.
type Consumer struct {
	reader messageReader
	topic  string
	repo   PriceRepository
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewConsumer creates a new Kafka consumer for price events
func NewConsumer(brokers []string, topic, groupID string, repo PriceRepository, log logrus.FieldLogger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		topic:  topic,
		repo:   repo,
		log:    log.WithField("topic", topic),
		now:    time.Now,
	}
}

// Start consumes messages until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("starting kafka price consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("kafka price consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return c.reader.Close()
				}
				c.log.WithError(err).Error("error reading message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.log.WithError(err).WithFields(logrus.Fields{
					"partition": msg.Partition,
					"offset":    msg.Offset,
				}).Error("error processing message")
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	c.log.WithFields(logrus.Fields{
		"partition": msg.Partition,
		"offset":    msg.Offset,
		"key":       string(msg.Key),
	}).Debug("received message")

	var event models.PriceEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal price event: %w", err)
	}

	if event.EventType != models.EventPriceFetched {
		c.log.WithField("event_type", event.EventType).Debug("ignoring event")
		return nil
	}

	price, err := c.convertEventToPrice(event)
	if err != nil {
		return fmt.Errorf("failed to convert event to price: %w", err)
	}

	exists, err := c.repo.PriceExists(ctx, price.Symbol, price.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate price: %w", err)
	}
	if exists {
		c.log.WithFields(logrus.Fields{
			"symbol":     price.Symbol,
			"fetched_at": price.FetchedAt,
		}).Info("price already recorded, skipping")
		return nil
	}

	if err := c.repo.RecordPrice(ctx, price); err != nil {
		return fmt.Errorf("failed to record price: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"symbol": price.Symbol,
		"price":  price.Price.String(),
		"source": event.Source,
	}).Info("recorded price")
	return nil
}

// convertEventToPrice maps a PriceEvent to a Price snapshot
func (c *Consumer) convertEventToPrice(event models.PriceEvent) (*models.Price, error) {
	data := event.Data

	symbol := strings.ToUpper(strings.TrimSpace(data.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("missing symbol")
	}

	price, err := parseNumber(data.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", data.Price, err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("invalid price %q: must be positive", data.Price)
	}

	var change decimal.NullDecimal
	if data.ChangeValue != "" {
		if v, err := parseNumber(data.ChangeValue); err == nil {
			change = decimal.NewNullDecimal(v)
		}
	}

	var percentage *string
	if pct := strings.TrimSpace(data.Percentage); pct != "" {
		percentage = &pct
	}

	return &models.Price{
		Symbol:      symbol,
		Price:       price,
		ChangeValue: change,
		Percentage:  percentage,
		Direction:   data.Direction,
		FetchedAt:   c.parseFetchedAt(data.FetchedAt),
	}, nil
}

// parseFetchedAt falls back to the current time when the fetcher omitted or
// mangled the timestamp
func (c *Consumer) parseFetchedAt(raw *string) time.Time {
	if raw == nil || *raw == "" {
		return c.now().UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return t.UTC()
		}
	}
	return c.now().UTC()
}

// parseNumber accepts scraped values such as "1,234.50"
func parseNumber(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
