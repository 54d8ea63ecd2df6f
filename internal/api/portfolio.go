package api

import (
	"net/http"
)

// GetPortfolio handles GET /api/v1/portfolio
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	p, err := h.portfolio.Portfolio(ctx)
	if err != nil {
		h.serverError(w, r, err, "Failed to calculate portfolio")
		return
	}
	respondData(w, http.StatusOK, p)
}

// GetLots handles GET /api/v1/portfolio/lots
func (h *Handler) GetLots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	lots, err := h.portfolio.OpenLots(ctx)
	if err != nil {
		h.serverError(w, r, err, "Failed to calculate lots")
		return
	}
	respondData(w, http.StatusOK, lots)
}
