package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mavidal/fintrack-be/internal/objectstore"
	"github.com/mavidal/fintrack-be/internal/services"
)

// ExportHandler serves download requests for the external ledger snapshot.
type ExportHandler struct {
	store objectstore.Store
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(store objectstore.Store) *ExportHandler {
	return &ExportHandler{store: store}
}

// Download streams the user's export artifact as an attachment. The
// artifact is a best-effort projection and may lag the ledger or not exist
// yet.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "Email required", http.StatusBadRequest)
		return
	}

	key := services.ExportKey(email)
	data, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			http.Error(w, "No export found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("key", key).Msg("Failed to fetch export")
		http.Error(w, "Error fetching export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key))
	w.Write(data)
}
