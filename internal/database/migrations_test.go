package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("all tables exist", func(t *testing.T) {
		for _, tableName := range []string{"trades", "prices", "alerts", "stocks"} {
			var exists bool
			err := testDB.GetRawConn().QueryRow(`
				SELECT EXISTS (
					SELECT FROM information_schema.tables
					WHERE table_schema = 'public'
					AND table_name = $1
				)
			`, tableName).Scan(&exists)

			require.NoError(t, err, "failed to check table existence for %s", tableName)
			assert.True(t, exists, "table %s should exist", tableName)
		}
	})

	t.Run("trades table has correct columns", func(t *testing.T) {
		expectedColumns := map[string]string{
			"id":         "uuid",
			"seq":        "bigint",
			"symbol":     "character varying",
			"trade_type": "character varying",
			"quantity":   "numeric",
			"price":      "numeric",
			"trade_date": "date",
			"notes":      "text",
			"created_at": "timestamp with time zone",
		}

		for colName, expectedType := range expectedColumns {
			var actualType string
			err := testDB.GetRawConn().QueryRow(`
				SELECT data_type
				FROM information_schema.columns
				WHERE table_name = 'trades' AND column_name = $1
			`, colName).Scan(&actualType)

			require.NoError(t, err, "column %s should exist in trades table", colName)
			assert.Equal(t, expectedType, actualType, "column %s should have type %s", colName, expectedType)
		}
	})

	t.Run("indexes exist", func(t *testing.T) {
		expectedIndexes := []struct {
			table string
			index string
		}{
			{"trades", "idx_trades_symbol_date"},
			{"prices", "idx_prices_symbol_fetched_at"},
			{"alerts", "idx_alerts_symbol"},
		}

		for _, idx := range expectedIndexes {
			var exists bool
			err := testDB.GetRawConn().QueryRow(`
				SELECT EXISTS (
					SELECT FROM pg_indexes
					WHERE tablename = $1 AND indexname = $2
				)
			`, idx.table, idx.index).Scan(&exists)

			require.NoError(t, err)
			assert.True(t, exists, "index %s should exist on table %s", idx.index, idx.table)
		}
	})

	t.Run("unique constraints exist", func(t *testing.T) {
		for _, table := range []string{"stocks", "prices"} {
			var unique bool
			err := testDB.GetRawConn().QueryRow(`
				SELECT EXISTS (
					SELECT FROM pg_constraint c
					JOIN pg_class t ON c.conrelid = t.oid
					WHERE t.relname = $1
					AND c.contype = 'u'
				)
			`, table).Scan(&unique)
			require.NoError(t, err)
			assert.True(t, unique, "%s should have a unique constraint", table)
		}
	})

	t.Run("trade checks reject non-positive quantity", func(t *testing.T) {
		_, err := testDB.GetRawConn().Exec(`
			INSERT INTO trades (symbol, trade_type, quantity, price, trade_date)
			VALUES ('OGDC', 'Buy', 0, 10, '2024-01-01')
		`)
		assert.Error(t, err)
	})

	t.Run("Migrate is idempotent", func(t *testing.T) {
		assert.NoError(t, testDB.Migrate())
	})
}
