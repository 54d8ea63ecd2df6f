package alerts

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) PublishAlertTriggered(ctx context.Context, alert *models.Alert, message string) error {
	n.messages = append(n.messages, message)
	return n.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func band(symbol string, min, max int64) *models.Alert {
	return &models.Alert{
		Symbol:   symbol,
		MinPrice: decimal.NewFromInt(min),
		MaxPrice: decimal.NewFromInt(max),
		Enabled:  true,
	}
}

func price(symbol, value string) models.Price {
	return models.Price{Symbol: symbol, Price: decimal.RequireFromString(value)}
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("price inside the band fires nothing", func(t *testing.T) {
		mem := store.NewMemory()
		require.NoError(t, mem.CreateAlert(ctx, band("OGDC", 90, 120)))
		n := &recordingNotifier{}

		fired, err := NewEvaluator(mem, n, "USD", quietLogger()).Evaluate(ctx, price("OGDC", "100"))
		require.NoError(t, err)
		assert.Empty(t, fired)
		assert.Empty(t, n.messages)
	})

	t.Run("band edges are inclusive", func(t *testing.T) {
		mem := store.NewMemory()
		require.NoError(t, mem.CreateAlert(ctx, band("OGDC", 90, 120)))
		e := NewEvaluator(mem, nil, "USD", quietLogger())

		for _, p := range []string{"90", "120"} {
			fired, err := e.Evaluate(ctx, price("OGDC", p))
			require.NoError(t, err)
			assert.Empty(t, fired, "price %s", p)
		}
	})

	t.Run("breach below and above", func(t *testing.T) {
		mem := store.NewMemory()
		require.NoError(t, mem.CreateAlert(ctx, band("OGDC", 90, 120)))
		require.NoError(t, mem.CreateAlert(ctx, band("OGDC", 50, 80)))
		n := &recordingNotifier{}

		fired, err := NewEvaluator(mem, n, "USD", quietLogger()).Evaluate(ctx, price("OGDC", "85.5"))
		require.NoError(t, err)
		require.Len(t, fired, 2)
		assert.Equal(t, []string{
			"OGDC at $85.50 fell below $90.00",
			"OGDC at $85.50 rose above $80.00",
		}, n.messages)

		alerts, err := mem.ListAlerts(ctx)
		require.NoError(t, err)
		for _, a := range alerts {
			assert.True(t, a.Trigger)
		}
	})

	t.Run("triggered alerts do not fire again", func(t *testing.T) {
		mem := store.NewMemory()
		require.NoError(t, mem.CreateAlert(ctx, band("PPL", 70, 90)))
		n := &recordingNotifier{}
		e := NewEvaluator(mem, n, "USD", quietLogger())

		_, err := e.Evaluate(ctx, price("PPL", "60"))
		require.NoError(t, err)
		fired, err := e.Evaluate(ctx, price("PPL", "55"))
		require.NoError(t, err)
		assert.Empty(t, fired)
		assert.Len(t, n.messages, 1)
	})

	t.Run("disabled alerts and other symbols are ignored", func(t *testing.T) {
		mem := store.NewMemory()
		disabled := band("PPL", 70, 90)
		disabled.Enabled = false
		require.NoError(t, mem.CreateAlert(ctx, disabled))
		require.NoError(t, mem.CreateAlert(ctx, band("HUBC", 70, 90)))

		fired, err := NewEvaluator(mem, nil, "USD", quietLogger()).Evaluate(ctx, price("PPL", "10"))
		require.NoError(t, err)
		assert.Empty(t, fired)
	})

	t.Run("notifier failure does not fail evaluation", func(t *testing.T) {
		mem := store.NewMemory()
		require.NoError(t, mem.CreateAlert(ctx, band("PPL", 70, 90)))
		n := &recordingNotifier{err: errors.New("broker down")}

		fired, err := NewEvaluator(mem, n, "USD", quietLogger()).Evaluate(ctx, price("PPL", "95"))
		require.NoError(t, err)
		assert.Len(t, fired, 1)
	})
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.57", FormatMoney(decimal.RequireFromString("1234.567"), "USD"))
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero, "USD"))
	assert.Equal(t, "12.50 XYZ", FormatMoney(decimal.RequireFromString("12.5"), "XYZ"))
}
