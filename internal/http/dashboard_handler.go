package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/hostel-dashboard/internal/access"
	"github.com/example/hostel-dashboard/internal/application"
)

type summaryService interface {
	Summary(ctx context.Context, viewer application.Identity) application.Summary
}

// DashboardHandler serves the role summary plus the gate and navigation
// lookups the client uses to route between pages.
type DashboardHandler struct {
	service   summaryService
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(service summaryService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotLoggedIn)
		return
	}

	summary := h.service.Summary(r.Context(), identity)
	h.log(r.Context(), "Summary").DebugContext(r.Context(), "dashboard summary served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, summary)
}

// Gate answers whether the caller may open ?path=. Anonymous callers are
// evaluated as logged out.
func (h *DashboardHandler) Gate(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, authenticated := IdentityFromContext(r.Context())
	decision := access.Decide(authenticated, identity.Role, r.URL.Query().Get("path"))
	h.log(r.Context(), "Gate",
		"page", decision.Path,
		"allowed", decision.Allowed,
		"redirect", decision.Redirect,
	).DebugContext(r.Context(), "gate decision")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, decision)
}

func (h *DashboardHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotLoggedIn)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, navigationResponse{Pages: access.Navigation(identity.Role)})
}

type navigationResponse struct {
	Pages []access.Page `json:"pages"`
}
