package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mavidal/fintrack-be/internal/services"
)

// PremiumHandler handles HTTP requests for the premium upgrade flow.
type PremiumHandler struct {
	service services.PremiumServiceProvider
}

// NewPremiumHandler creates a new PremiumHandler.
func NewPremiumHandler(service services.PremiumServiceProvider) *PremiumHandler {
	return &PremiumHandler{service: service}
}

// CreateOrder creates a payment-gateway order for the upgrade.
func (h *PremiumHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CreateOrder(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to create payment order")
		http.Error(w, "Error creating order", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// Activate marks a user as premium after a completed payment.
func (h *PremiumHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		http.Error(w, "Email required", http.StatusBadRequest)
		return
	}

	if err := h.service.ActivatePremium(r.Context(), payload.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to activate premium")
		http.Error(w, "Error updating premium status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Premium status updated successfully"})
}

// Status reports a user's premium flag.
func (h *PremiumHandler) Status(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	isPremium, err := h.service.Status(r.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to read premium status")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"isPremium": isPremium})
}
