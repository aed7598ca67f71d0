package handler

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Health handles GET /api/health. The driver error is logged, not returned.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	reqID := chimw.GetReqID(r.Context())
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "request_id", reqID, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unhealthy",
			Message:   "database unavailable",
			RequestID: reqID,
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Message:   "Meridian Club API",
		RequestID: reqID,
	})
}
