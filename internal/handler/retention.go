package handler

import (
	"log/slog"
	"net/http"

	"mdstash/internal/httputil"
	"mdstash/internal/service"
)

// RetentionHandler exposes the scheduled sweep as a manual trigger.
type RetentionHandler struct {
	retention *service.RetentionEngine
	logger    *slog.Logger
}

// NewRetentionHandler creates a retention handler.
func NewRetentionHandler(retention *service.RetentionEngine, logger *slog.Logger) *RetentionHandler {
	return &RetentionHandler{retention: retention, logger: logger}
}

// Sweep runs one retention pass immediately.
// POST /api/retention/sweep
func (h *RetentionHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if err := h.retention.Sweep(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
