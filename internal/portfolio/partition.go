package portfolio

import (
	"sort"

	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// GroupBySymbol partitions trades by symbol. Within a symbol the ledger order
// is preserved. Every call returns a fresh map.
func GroupBySymbol(trades []models.Trade) map[string][]models.Trade {
	groups := make(map[string][]models.Trade)
	for _, t := range trades {
		groups[t.Symbol] = append(groups[t.Symbol], t)
	}
	return groups
}

// symbols returns the keys of a grouping in ascending order.
func symbols(groups map[string][]models.Trade) []string {
	keys := make([]string, 0, len(groups))
	for s := range groups {
		keys = append(keys, s)
	}
	sort.Strings(keys)
	return keys
}
