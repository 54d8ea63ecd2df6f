package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/auth"
	"github.com/trogers1052/portfolio-tracker/internal/kafka"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/portfolio"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

// PriceRecorder stores a new snapshot and runs the follow-up work.
type PriceRecorder interface {
	RecordPrice(ctx context.Context, p *models.Price) error
}

// Deps are the collaborators of the HTTP handlers. Publisher may be nil.
type Deps struct {
	Store     store.Store
	Prices    portfolio.PriceSource
	Portfolio *portfolio.Service
	Recorder  PriceRecorder
	Publisher kafka.Publisher
	Auth      *auth.Authenticator
	Log       logrus.FieldLogger
	Timeout   time.Duration
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store     store.Store
	prices    portfolio.PriceSource
	portfolio *portfolio.Service
	recorder  PriceRecorder
	producer  kafka.Publisher
	auth      *auth.Authenticator
	log       logrus.FieldLogger
	timeout   time.Duration
	now       func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(d Deps) *Handler {
	prices := d.Prices
	if prices == nil {
		prices = d.Store
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		store:     d.Store,
		prices:    prices,
		portfolio: d.Portfolio,
		recorder:  d.Recorder,
		producer:  d.Publisher,
		auth:      d.Auth,
		log:       d.Log.WithField("component", "api"),
		timeout:   timeout,
		now:       time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

// serverError logs the cause and answers with a generic message.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.log.WithError(err).
		WithField("method", r.Method).
		WithField("path", r.URL.Path).
		Error(message)
	respondError(w, http.StatusInternalServerError, message)
}

// envelope is the body of every /api/v1 response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Success: false, Error: message})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
