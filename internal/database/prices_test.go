package database

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

func TestPricesRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	record := func(t *testing.T, symbol, price string, at time.Time) *models.Price {
		pct := "1.50%"
		p := &models.Price{
			Symbol:      symbol,
			Price:       decimal.RequireFromString(price),
			ChangeValue: decimal.NewNullDecimal(decimal.RequireFromString("1.5")),
			Percentage:  &pct,
			Direction:   "up",
			FetchedAt:   at,
		}
		require.NoError(t, testDB.CreatePrice(ctx, p))
		return p
	}

	t.Run("CreatePrice stores nullable fields", func(t *testing.T) {
		testDB.TruncateAll(t)

		p := &models.Price{Symbol: "OGDC", Price: decimal.NewFromInt(100), FetchedAt: base}
		require.NoError(t, testDB.CreatePrice(ctx, p))
		assert.NotEmpty(t, p.ID)

		latest, err := testDB.LatestPrices(ctx, []string{"OGDC"})
		require.NoError(t, err)
		got := latest["OGDC"]
		assert.False(t, got.ChangeValue.Valid)
		assert.Nil(t, got.Percentage)
		assert.True(t, got.FetchedAt.Equal(base))
	})

	t.Run("duplicate snapshot is rejected", func(t *testing.T) {
		testDB.TruncateAll(t)

		record(t, "OGDC", "100", base)
		err := testDB.CreatePrice(ctx, &models.Price{Symbol: "OGDC", Price: decimal.NewFromInt(101), FetchedAt: base})
		assert.Error(t, err)
	})

	t.Run("LatestPrices picks newest per symbol", func(t *testing.T) {
		testDB.TruncateAll(t)

		record(t, "OGDC", "100", base)
		record(t, "OGDC", "104", base.Add(2*time.Hour))
		record(t, "OGDC", "102", base.Add(time.Hour))
		record(t, "PPL", "80", base)

		latest, err := testDB.LatestPrices(ctx, []string{"OGDC", "PPL", "NONE"})
		require.NoError(t, err)
		require.Len(t, latest, 2)
		assert.True(t, decimal.NewFromInt(104).Equal(latest["OGDC"].Price))
		assert.Equal(t, "1.50%", *latest["OGDC"].Percentage)

		all, err := testDB.LatestPrices(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("ListPrices filters and limits", func(t *testing.T) {
		testDB.TruncateAll(t)

		for i := 0; i < 5; i++ {
			record(t, "OGDC", "100", base.Add(time.Duration(i)*time.Hour))
		}
		record(t, "PPL", "80", base)

		prices, err := testDB.ListPrices(ctx, store.PriceFilter{Symbols: []string{"OGDC"}, Limit: 3})
		require.NoError(t, err)
		require.Len(t, prices, 3)
		assert.True(t, prices[0].FetchedAt.After(prices[1].FetchedAt))

		all, err := testDB.ListPrices(ctx, store.PriceFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})

	t.Run("PriceExists", func(t *testing.T) {
		testDB.TruncateAll(t)
		record(t, "OGDC", "100", base)

		ok, err := testDB.PriceExists(ctx, "OGDC", base)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = testDB.PriceExists(ctx, "PPL", base)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
