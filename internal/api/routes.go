package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(handler.accessLog)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", handler.Login).Methods("POST")

	// Everything else needs a session
	protected := api.NewRoute().Subrouter()
	protected.Use(handler.requireAuth)

	protected.HandleFunc("/auth/verify", handler.Verify).Methods("GET")
	protected.HandleFunc("/auth/logout", handler.Logout).Methods("POST")

	protected.HandleFunc("/trades", handler.GetTrades).Methods("GET")
	protected.HandleFunc("/trades", handler.CreateTrade).Methods("POST")
	protected.HandleFunc("/trades/{id}", handler.DeleteTrade).Methods("DELETE")

	protected.HandleFunc("/prices", handler.GetPrices).Methods("GET")
	protected.HandleFunc("/prices", handler.CreatePrice).Methods("POST")
	protected.HandleFunc("/prices/performance", handler.GetPerformance).Methods("GET")

	protected.HandleFunc("/portfolio", handler.GetPortfolio).Methods("GET")
	protected.HandleFunc("/portfolio/lots", handler.GetLots).Methods("GET")

	protected.HandleFunc("/alerts", handler.GetAlerts).Methods("GET")
	protected.HandleFunc("/alerts", handler.CreateAlert).Methods("POST")
	protected.HandleFunc("/alerts", handler.UpdateAlert).Methods("PUT")
	protected.HandleFunc("/alerts", handler.DeleteAlert).Methods("DELETE")

	protected.HandleFunc("/stocks", handler.GetAllStocks).Methods("GET")
	protected.HandleFunc("/stocks", handler.AddStock).Methods("POST")
	protected.HandleFunc("/stocks", handler.RemoveStock).Methods("DELETE")
	protected.HandleFunc("/stocks/{symbol}", handler.GetStock).Methods("GET")
	protected.HandleFunc("/stocks/{symbol}/score", handler.GetStockScore).Methods("GET")

	return r
}
