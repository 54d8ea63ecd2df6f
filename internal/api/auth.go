package api

import (
	"errors"
	"net/http"

	"github.com/trogers1052/portfolio-tracker/internal/auth"
)

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.log.WithField("email", req.Email).Warn("rejected login")
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Login failed")
		return
	}

	h.auth.SetCookie(w, token)
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: user, Message: "Login successful"})
}

// Verify handles GET /api/v1/auth/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	respondData(w, http.StatusOK, user)
}

// Logout handles POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearCookie(w)
	respondMessage(w, "Logout successful")
}
