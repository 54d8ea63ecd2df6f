package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ts := SetupTestStore(t)
	defer ts.Cleanup(t)
	ctx := context.Background()

	t.Run("trades round trip in ledger order", func(t *testing.T) {
		ts.DropAll(t)

		first := &models.Trade{Symbol: "OGDC", TradeType: models.TradeTypeBuy, Quantity: decimal.NewFromInt(10), Price: decimal.RequireFromString("100.5"), TradeDate: models.MustParseDate("2024-01-05")}
		second := &models.Trade{Symbol: "OGDC", TradeType: models.TradeTypeSell, Quantity: decimal.NewFromInt(4), Price: decimal.NewFromInt(110), TradeDate: models.MustParseDate("2024-01-05")}
		earlier := &models.Trade{Symbol: "PPL", TradeType: models.TradeTypeBuy, Quantity: decimal.NewFromInt(3), Price: decimal.NewFromInt(80), TradeDate: models.MustParseDate("2023-12-29")}
		for _, tr := range []*models.Trade{first, second, earlier} {
			require.NoError(t, ts.CreateTrade(ctx, tr))
			assert.Len(t, tr.ID, 24)
		}

		all, err := ts.AllTrades(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{earlier.ID, first.ID, second.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
		assert.True(t, decimal.RequireFromString("100.5").Equal(all[1].Price))

		listed, err := ts.ListTrades(ctx, store.TradeFilter{Symbol: "OGDC", StartDate: models.MustParseDate("2024-01-01"), EndDate: models.MustParseDate("2024-01-31")})
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, second.ID, listed[0].ID)

		deleted, err := ts.DeleteTrade(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "OGDC", deleted.Symbol)

		_, err = ts.DeleteTrade(ctx, first.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = ts.DeleteTrade(ctx, "garbage")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("latest prices via aggregation", func(t *testing.T) {
		ts.DropAll(t)
		base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

		for i, p := range []string{"100", "103", "101"} {
			require.NoError(t, ts.CreatePrice(ctx, &models.Price{Symbol: "OGDC", Price: decimal.RequireFromString(p), FetchedAt: base.Add(time.Duration(i) * time.Hour)}))
		}
		require.NoError(t, ts.CreatePrice(ctx, &models.Price{Symbol: "PPL", Price: decimal.NewFromInt(80), FetchedAt: base}))

		latest, err := ts.LatestPrices(ctx, []string{"OGDC"})
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.True(t, decimal.NewFromInt(101).Equal(latest["OGDC"].Price))
		assert.True(t, latest["OGDC"].FetchedAt.Equal(base.Add(2*time.Hour)))

		history, err := ts.ListPrices(ctx, store.PriceFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, history, 2)

		ok, err := ts.PriceExists(ctx, "PPL", base)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("alerts by natural key", func(t *testing.T) {
		ts.DropAll(t)

		require.NoError(t, ts.CreateAlert(ctx, &models.Alert{Symbol: "HUBC", MinPrice: decimal.NewFromInt(80), MaxPrice: decimal.NewFromInt(95), Enabled: true}))
		key := models.AlertKey{Symbol: "HUBC", MinPrice: decimal.RequireFromString("80.00"), MaxPrice: decimal.NewFromInt(95)}

		require.NoError(t, ts.SetAlertTrigger(ctx, key, true))
		enabled, err := ts.EnabledAlertsBySymbol(ctx, "HUBC")
		require.NoError(t, err)
		require.Len(t, enabled, 1)
		assert.True(t, enabled[0].Trigger)
		assert.False(t, enabled[0].Quantity.Valid)

		require.NoError(t, ts.SetAlertEnabled(ctx, key, false))
		enabled, err = ts.EnabledAlertsBySymbol(ctx, "HUBC")
		require.NoError(t, err)
		assert.Empty(t, enabled)

		require.NoError(t, ts.DeleteAlert(ctx, key))
		assert.ErrorIs(t, ts.DeleteAlert(ctx, key), store.ErrNotFound)
	})

	t.Run("stocks upsert and delete", func(t *testing.T) {
		ts.DropAll(t)

		created, err := ts.UpsertStock(ctx, "PPL")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.NotNil(t, created.Payouts)

		again, err := ts.UpsertStock(ctx, "PPL")
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)

		full := models.NewStock("OGDC")
		full.Ratios = append(full.Ratios, models.Ratio{Period: "2023", EPSGrowth: "25.1"})
		require.NoError(t, ts.SaveStock(ctx, full))

		got, err := ts.GetStock(ctx, "OGDC")
		require.NoError(t, err)
		require.Len(t, got.Ratios, 1)
		assert.Equal(t, "25.1", got.Ratios[0].EPSGrowth)

		symbols, err := ts.ListStockSymbols(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"OGDC", "PPL"}, symbols)

		require.NoError(t, ts.DeleteStock(ctx, "PPL"))
		_, err = ts.GetStock(ctx, "PPL")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
