package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage   pinger
	timeout   time.Duration
	responder responder
	logger    *slog.Logger
}

func NewHealthHandler(storage pinger, logger *slog.Logger) *HealthHandler {
	base := defaultLogger(logger)
	return &HealthHandler{storage: storage, timeout: 2 * time.Second, responder: newResponder(base), logger: base}
}

// Healthz pings the storage backend.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if h.storage == nil {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.storage.Ping(ctx); err != nil {
		handlerLogger(r.Context(), h.logger, "HealthHandler", "Healthz").WarnContext(r.Context(), "storage ping failed", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Storage: err.Error()})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok", Storage: "ok"})
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
}
