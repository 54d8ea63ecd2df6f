package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

type alertRequest struct {
	Symbol    string              `json:"symbol"`
	MinPrice  decimal.NullDecimal `json:"min_price"`
	MaxPrice  decimal.NullDecimal `json:"max_price"`
	Enabled   *bool               `json:"enabled"`
	Trigger   *bool               `json:"trigger"`
	TradeType string              `json:"trade_type"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	Notes     string              `json:"notes"`
}

func (req alertRequest) key() (models.AlertKey, bool) {
	if req.Symbol == "" || !req.MinPrice.Valid || !req.MaxPrice.Valid {
		return models.AlertKey{}, false
	}
	return models.AlertKey{
		Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		MinPrice: req.MinPrice.Decimal,
		MaxPrice: req.MaxPrice.Decimal,
	}, true
}

// GetAlerts handles GET /api/v1/alerts
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	alerts, err := h.store.ListAlerts(ctx)
	if err != nil {
		h.serverError(w, r, err, "Failed to fetch alerts")
		return
	}
	respondData(w, http.StatusOK, alerts)
}

// CreateAlert handles POST /api/v1/alerts
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	key, ok := req.key()
	if !ok {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if key.MinPrice.GreaterThan(key.MaxPrice) {
		respondError(w, http.StatusBadRequest, "min_price must not exceed max_price")
		return
	}

	alert := &models.Alert{
		Symbol:   key.Symbol,
		MinPrice: key.MinPrice,
		MaxPrice: key.MaxPrice,
		Enabled:  req.Enabled == nil || *req.Enabled,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	}
	if req.TradeType != "" {
		side, ok := models.ParseTradeType(req.TradeType)
		if !ok {
			respondError(w, http.StatusBadRequest, "trade_type must be Buy or Sell")
			return
		}
		alert.TradeType = side
	}

	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.store.CreateAlert(ctx, alert); err != nil {
		h.serverError(w, r, err, "Failed to save alert")
		return
	}
	respondData(w, http.StatusCreated, alert)
}

// UpdateAlert handles PUT /api/v1/alerts?action=toggle|trigger
func (h *Handler) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action != "toggle" && action != "trigger" {
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	key, ok := req.key()
	if !ok {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	var err error
	var message string
	switch action {
	case "toggle":
		if req.Enabled == nil {
			respondError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		err = h.store.SetAlertEnabled(ctx, key, *req.Enabled)
		message = "Alert updated successfully"
	case "trigger":
		if req.Trigger == nil {
			respondError(w, http.StatusBadRequest, "trigger is required")
			return
		}
		err = h.store.SetAlertTrigger(ctx, key, *req.Trigger)
		message = "Alert trigger updated successfully"
	}

	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to update alert")
		return
	}
	respondMessage(w, message)
}

// DeleteAlert handles DELETE /api/v1/alerts
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	key, ok := req.key()
	if !ok {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	err := h.store.DeleteAlert(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to delete alert")
		return
	}
	respondMessage(w, "Alert deleted successfully")
}
