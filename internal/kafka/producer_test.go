package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func newTestProducer(w messageWriter) *Producer {
	return &Producer{writer: w, topic: "portfolio-events", now: func() time.Time { return fixedNow }}
}

func decodeEvent(t *testing.T, msg kafka.Message) models.LedgerEvent {
	t.Helper()
	var event models.LedgerEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	return event
}

func TestProducer(t *testing.T) {
	ctx := context.Background()
	trade := &models.Trade{
		ID:        "t-1",
		Symbol:    "OGDC",
		TradeType: models.TradeTypeBuy,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(100),
		TradeDate: models.MustParseDate("2024-05-06"),
	}

	t.Run("trade events are keyed by symbol", func(t *testing.T) {
		w := &recordingWriter{}
		p := newTestProducer(w)

		require.NoError(t, p.PublishTradeCreated(ctx, trade))
		require.NoError(t, p.PublishTradeDeleted(ctx, trade))
		require.Len(t, w.msgs, 2)

		assert.Equal(t, "OGDC", string(w.msgs[0].Key))
		created := decodeEvent(t, w.msgs[0])
		assert.Equal(t, models.EventTradeCreated, created.EventType)
		assert.Equal(t, "t-1", created.TradeID)
		assert.True(t, fixedNow.Equal(created.Timestamp))
		assert.Equal(t, models.EventTradeDeleted, decodeEvent(t, w.msgs[1]).EventType)
	})

	t.Run("price and alert events", func(t *testing.T) {
		w := &recordingWriter{}
		p := newTestProducer(w)

		require.NoError(t, p.PublishPriceRecorded(ctx, &models.Price{Symbol: "PPL", Price: decimal.NewFromInt(80)}))
		require.NoError(t, p.PublishAlertTriggered(ctx, &models.Alert{Symbol: "PPL"}, "PPL fell below Rs 85.00"))

		price := decodeEvent(t, w.msgs[0])
		assert.Equal(t, models.EventPriceRecorded, price.EventType)
		require.NotNil(t, price.Price)

		alert := decodeEvent(t, w.msgs[1])
		assert.Equal(t, models.EventAlertTriggered, alert.EventType)
		assert.Equal(t, "PPL fell below Rs 85.00", alert.Message)
	})

	t.Run("write failures are wrapped", func(t *testing.T) {
		p := newTestProducer(&recordingWriter{err: errors.New("broker unavailable")})
		err := p.PublishTradeCreated(ctx, trade)
		assert.ErrorContains(t, err, "failed to write message to kafka")
	})
}
