package portfolio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

func TestRealizedProfit(t *testing.T) {
	t.Run("sell spanning two lots", func(t *testing.T) {
		ledger := []models.Trade{
			buy("LUCK", "100", "10", "2025-01-01"),
			buy("LUCK", "50", "12", "2025-01-02"),
			sell("LUCK", "120", "15", "2025-01-03"),
		}

		// 100*(15-10) + 20*(15-12)
		assertDecimal(t, "560", RealizedProfit(ledger))

		lots := OpenLots(ledger)
		require.Len(t, lots["LUCK"], 1)
		assertDecimal(t, "30", lots["LUCK"][0].Quantity)
		assertDecimal(t, "12", lots["LUCK"][0].Price)
		assert.Equal(t, models.MustParseDate("2025-01-02"), lots["LUCK"][0].TradeDate)
	})

	t.Run("oversell ignores the unmatched excess", func(t *testing.T) {
		ledger := []models.Trade{
			buy("KEL", "10", "5", "2025-01-01"),
			sell("KEL", "20", "8", "2025-01-02"),
		}

		assertDecimal(t, "30", RealizedProfit(ledger))
		assert.Empty(t, OpenLots(ledger))
	})

	t.Run("sell before any buy contributes nothing", func(t *testing.T) {
		ledger := []models.Trade{
			sell("KEL", "5", "8", "2025-01-01"),
			buy("KEL", "10", "5", "2025-01-02"),
		}

		assertDecimal(t, "0", RealizedProfit(ledger))
		lots := OpenLots(ledger)
		require.Len(t, lots["KEL"], 1)
		assertDecimal(t, "10", lots["KEL"][0].Quantity)
	})

	t.Run("losses are negative", func(t *testing.T) {
		ledger := []models.Trade{
			buy("PIOC", "10", "100", "2025-01-01"),
			sell("PIOC", "10", "90", "2025-01-02"),
		}

		assertDecimal(t, "-100", RealizedProfit(ledger))
	})

	t.Run("trades are matched in date order regardless of ledger order", func(t *testing.T) {
		ledger := []models.Trade{
			sell("ATRL", "10", "30", "2025-03-01"),
			buy("ATRL", "10", "25", "2025-02-01"),
			buy("ATRL", "10", "10", "2025-01-01"),
		}

		// the January lot is the oldest
		assertDecimal(t, "200", RealizedProfit(ledger))
		lots := OpenLots(ledger)
		require.Len(t, lots["ATRL"], 1)
		assertDecimal(t, "25", lots["ATRL"][0].Price)
	})

	t.Run("same-day trades keep ledger order", func(t *testing.T) {
		ledger := []models.Trade{
			buy("NML", "10", "10", "2025-01-01"),
			sell("NML", "10", "12", "2025-01-01"),
			buy("NML", "10", "20", "2025-01-01"),
		}

		// the sell precedes the second buy, so only the first lot is matched
		assertDecimal(t, "20", RealizedProfit(ledger))
		lots := OpenLots(ledger)
		require.Len(t, lots["NML"], 1)
		assertDecimal(t, "20", lots["NML"][0].Price)
	})

	t.Run("input ledger is not reordered or mutated", func(t *testing.T) {
		ledger := []models.Trade{
			sell("ATRL", "5", "30", "2025-03-01"),
			buy("ATRL", "10", "10", "2025-01-01"),
		}
		before := append([]models.Trade(nil), ledger...)

		RealizedProfit(ledger)
		OpenLots(ledger)

		assert.Equal(t, before, ledger)
	})

	t.Run("symbols are settled independently", func(t *testing.T) {
		a := []models.Trade{
			buy("A", "10", "10", "2025-01-01"),
			sell("A", "5", "20", "2025-01-03"),
		}
		b := []models.Trade{
			buy("B", "10", "100", "2025-01-02"),
			sell("B", "20", "50", "2025-01-02"),
		}
		mixed := []models.Trade{a[0], b[0], b[1], a[1]}

		assertDecimal(t, "50", RealizedProfit(a))
		assertDecimal(t, "-500", RealizedProfit(b))
		assertDecimal(t, "-450", RealizedProfit(mixed))
	})

	t.Run("empty ledger", func(t *testing.T) {
		assertDecimal(t, "0", RealizedProfit(nil))
		assert.Empty(t, OpenLots(nil))
	})
}

func TestRealizedProfitStrict(t *testing.T) {
	t.Run("matches the lenient result when no sell exceeds the lots", func(t *testing.T) {
		ledger := []models.Trade{
			buy("LUCK", "100", "10", "2025-01-01"),
			buy("LUCK", "50", "12", "2025-01-02"),
			sell("LUCK", "120", "15", "2025-01-03"),
		}

		got, err := RealizedProfitStrict(ledger)
		require.NoError(t, err)
		assertDecimal(t, "560", got)
	})

	t.Run("reports the unmatched quantity", func(t *testing.T) {
		over := sell("KEL", "20", "8", "2025-01-02")
		ledger := []models.Trade{buy("KEL", "10", "5", "2025-01-01"), over}

		_, err := RealizedProfitStrict(ledger)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOversell))

		var oversell *OversellError
		require.True(t, errors.As(err, &oversell))
		assert.Equal(t, "KEL", oversell.Symbol)
		assert.Equal(t, over.ID, oversell.TradeID)
		assertDecimal(t, "10", oversell.Unmatched)
		assert.Contains(t, err.Error(), "2025-01-02")
	})
}
