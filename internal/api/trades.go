package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/portfolio"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

type tradeRequest struct {
	Symbol    string          `json:"symbol"`
	TradeType string          `json:"trade_type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TradeDate models.Date     `json:"trade_date"`
	Notes     string          `json:"notes"`
}

// GetTrades handles GET /api/v1/trades
func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter store.TradeFilter
	if symbol := strings.TrimSpace(q.Get("symbol")); symbol != "" && symbol != "All" {
		filter.Symbol = strings.ToUpper(symbol)
	}
	if start, end := q.Get("startDate"), q.Get("endDate"); start != "" && end != "" {
		var err error
		if filter.StartDate, err = models.ParseDate(start); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid startDate")
			return
		}
		if filter.EndDate, err = models.ParseDate(end); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid endDate")
			return
		}
	}

	ctx, cancel := h.context(r)
	defer cancel()

	trades, err := h.store.ListTrades(ctx, filter)
	if err != nil {
		h.serverError(w, r, err, "Failed to fetch trades")
		return
	}
	respondData(w, http.StatusOK, trades)
}

// CreateTrade handles POST /api/v1/trades
func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Symbol == "" || req.TradeType == "" || req.Quantity.IsZero() || req.Price.IsZero() {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !req.Quantity.IsInteger() {
		respondError(w, http.StatusBadRequest, "quantity must be a whole number")
		return
	}
	side, ok := models.ParseTradeType(req.TradeType)
	if !ok {
		respondError(w, http.StatusBadRequest, "trade_type must be Buy or Sell")
		return
	}

	trade := &models.Trade{
		Symbol:    strings.ToUpper(strings.TrimSpace(req.Symbol)),
		TradeType: side,
		Quantity:  req.Quantity,
		Price:     req.Price,
		TradeDate: req.TradeDate,
		Notes:     req.Notes,
		CreatedAt: h.now().UTC(),
	}
	if trade.TradeDate.IsZero() {
		trade.TradeDate = models.DateOf(h.now().UTC())
	}
	if err := portfolio.ValidateTrade(*trade); err != nil {
		var verr *portfolio.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Reason)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.store.CreateTrade(ctx, trade); err != nil {
		h.serverError(w, r, err, "Failed to save trade")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTradeCreated(ctx, trade); err != nil {
			h.log.WithError(err).WithField("trade_id", trade.ID).Warn("failed to publish trade created")
		}
	}

	respondData(w, http.StatusCreated, trade)
}

// DeleteTrade handles DELETE /api/v1/trades/{id}
func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := h.context(r)
	defer cancel()

	trade, err := h.store.DeleteTrade(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Trade not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to delete trade")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTradeDeleted(ctx, trade); err != nil {
			h.log.WithError(err).WithField("trade_id", trade.ID).Warn("failed to publish trade deleted")
		}
	}

	respondMessage(w, "Trade deleted successfully")
}
