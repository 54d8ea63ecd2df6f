package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// Publisher announces ledger, price and alert changes.
type Publisher interface {
	PublishTradeCreated(ctx context.Context, trade *models.Trade) error
	PublishTradeDeleted(ctx context.Context, trade *models.Trade) error
	PublishPriceRecorded(ctx context.Context, price *models.Price) error
	PublishAlertTriggered(ctx context.Context, alert *models.Alert, message string) error
}

// messageWriter is the subset of *kafka.Writer the producer needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing ledger events to Kafka
type Producer struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
		now:    time.Now,
	}
}

// PublishTradeCreated publishes a trade created event
func (p *Producer) PublishTradeCreated(ctx context.Context, trade *models.Trade) error {
	return p.publish(ctx, models.LedgerEvent{
		EventType: models.EventTradeCreated,
		Symbol:    trade.Symbol,
		Trade:     trade,
		TradeID:   trade.ID,
	})
}

// PublishTradeDeleted publishes a trade deleted event
func (p *Producer) PublishTradeDeleted(ctx context.Context, trade *models.Trade) error {
	return p.publish(ctx, models.LedgerEvent{
		EventType: models.EventTradeDeleted,
		Symbol:    trade.Symbol,
		Trade:     trade,
		TradeID:   trade.ID,
	})
}

// PublishPriceRecorded publishes a price recorded event
func (p *Producer) PublishPriceRecorded(ctx context.Context, price *models.Price) error {
	return p.publish(ctx, models.LedgerEvent{
		EventType: models.EventPriceRecorded,
		Symbol:    price.Symbol,
		Price:     price,
	})
}

// PublishAlertTriggered publishes an alert triggered event
func (p *Producer) PublishAlertTriggered(ctx context.Context, alert *models.Alert, message string) error {
	return p.publish(ctx, models.LedgerEvent{
		EventType: models.EventAlertTriggered,
		Symbol:    alert.Symbol,
		Alert:     alert,
		Message:   message,
	})
}

// publish keys every event by symbol so one symbol's events stay ordered
func (p *Producer) publish(ctx context.Context, event models.LedgerEvent) error {
	event.Timestamp = p.now().UTC()
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Symbol),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
