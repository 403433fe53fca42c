package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/mavidal/fintrack-be/internal/models"
	"github.com/mavidal/fintrack-be/internal/services"
)

// LeaderboardHandler serves the spend leaderboard.
type LeaderboardHandler struct {
	service services.ExpenseServiceProvider
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(service services.ExpenseServiceProvider) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Get returns users ordered by total spend, highest first.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch leaderboard")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
