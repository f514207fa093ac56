package handler

import (
	"log/slog"
	"net/http"

	"mdstash/internal/httputil"
	"mdstash/internal/service"
)

// HistoryHandler handles view-history HTTP requests.
type HistoryHandler struct {
	history *service.HistoryService
	logger  *slog.Logger
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(history *service.HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// List returns visible history entries, most recent first.
// GET /api/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"history": entries})
}

// Remove deletes one history entry.
// DELETE /api/history/{id}
func (h *HistoryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Remove(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear empties the history list.
// DELETE /api/history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
