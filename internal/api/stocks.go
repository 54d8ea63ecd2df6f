package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/trogers1052/portfolio-tracker/internal/scoring"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

type symbolRequest struct {
	Symbol string `json:"symbol"`
}

// GetAllStocks handles GET /api/v1/stocks
func (h *Handler) GetAllStocks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if r.URL.Query().Get("symbolsOnly") == "true" {
		symbols, err := h.store.ListStockSymbols(ctx)
		if err != nil {
			h.serverError(w, r, err, "Failed to fetch stocks")
			return
		}
		out := make([]symbolRequest, 0, len(symbols))
		for _, s := range symbols {
			out = append(out, symbolRequest{Symbol: s})
		}
		respondData(w, http.StatusOK, out)
		return
	}

	stocks, err := h.store.ListStocks(ctx)
	if err != nil {
		h.serverError(w, r, err, "Failed to fetch stocks")
		return
	}
	respondData(w, http.StatusOK, stocks)
}

// AddStock handles POST /api/v1/stocks
func (h *Handler) AddStock(w http.ResponseWriter, r *http.Request) {
	symbol, ok := readSymbol(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	stock, err := h.store.UpsertStock(ctx, symbol)
	if err != nil {
		h.serverError(w, r, err, "Failed to save stock")
		return
	}
	respondData(w, http.StatusOK, stock)
}

// RemoveStock handles DELETE /api/v1/stocks
func (h *Handler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	symbol, ok := readSymbol(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	err := h.store.DeleteStock(ctx, symbol)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stock not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to delete stock")
		return
	}
	respondMessage(w, "Stock deleted successfully")
}

// GetStock handles GET /api/v1/stocks/{symbol}
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	ctx, cancel := h.context(r)
	defer cancel()

	stock, err := h.store.GetStock(ctx, symbol)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stock not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to fetch stock")
		return
	}
	respondData(w, http.StatusOK, stock)
}

// GetStockScore handles GET /api/v1/stocks/{symbol}/score
func (h *Handler) GetStockScore(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	ctx, cancel := h.context(r)
	defer cancel()

	stock, err := h.store.GetStock(ctx, symbol)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stock not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to score stock")
		return
	}
	respondData(w, http.StatusOK, scoring.Score(stock))
}

func readSymbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req symbolRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required")
		return "", false
	}
	return symbol, true
}
