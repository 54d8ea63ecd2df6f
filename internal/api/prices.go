package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/performance"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

type priceRequest struct {
	Symbol      string              `json:"symbol"`
	Price       decimal.Decimal     `json:"price"`
	ChangeValue decimal.NullDecimal `json:"change_value"`
	Percentage  *string             `json:"percentage"`
	Direction   string              `json:"direction"`
}

// GetPrices handles GET /api/v1/prices
func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))

	ctx, cancel := h.context(r)
	defer cancel()

	if r.URL.Query().Get("latest") == "true" {
		latest, err := h.prices.LatestPrices(ctx, symbols)
		if err != nil {
			h.serverError(w, r, err, "Failed to fetch prices")
			return
		}
		out := make([]models.Price, 0, len(latest))
		for _, p := range latest {
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
		respondData(w, http.StatusOK, out)
		return
	}

	prices, err := h.store.ListPrices(ctx, store.PriceFilter{
		Symbols: symbols,
		Limit:   store.DefaultPriceHistoryLimit,
	})
	if err != nil {
		h.serverError(w, r, err, "Failed to fetch prices")
		return
	}
	respondData(w, http.StatusOK, prices)
}

// CreatePrice handles POST /api/v1/prices
func (h *Handler) CreatePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Symbol) == "" || !req.Price.IsPositive() {
		respondError(w, http.StatusBadRequest, "symbol and a positive price are required")
		return
	}

	price := &models.Price{
		Symbol:      strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Price:       req.Price,
		ChangeValue: req.ChangeValue,
		Percentage:  req.Percentage,
		Direction:   req.Direction,
		FetchedAt:   h.now().UTC(),
	}

	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.recorder.RecordPrice(ctx, price); err != nil {
		h.serverError(w, r, err, "Failed to save price")
		return
	}
	respondData(w, http.StatusCreated, price)
}

// GetPerformance handles GET /api/v1/prices/performance
func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, "Symbols parameter is required")
		return
	}
	days := performance.DefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	ctx, cancel := h.context(r)
	defer cancel()

	rows, err := performance.Table(ctx, h.store, symbols, days)
	if err != nil {
		h.serverError(w, r, err, "Failed to fetch stock performance data")
		return
	}
	respondData(w, http.StatusOK, rows)
}

func splitSymbols(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
