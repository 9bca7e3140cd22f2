package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
)

type outpassService interface {
	AddOutpassRequest(ctx context.Context, input application.OutpassInput) (application.OutpassRequest, error)
	UpdateOutpassRequest(ctx context.Context, id string, status application.OutpassStatus) (application.OutpassRequest, error)
	ListOutpassRequests(viewer application.Identity) []application.OutpassRequest
}

type OutpassHandler struct {
	service   outpassService
	responder responder
	logger    *slog.Logger
}

func NewOutpassHandler(service outpassService, logger *slog.Logger) *OutpassHandler {
	base := defaultLogger(logger)
	return &OutpassHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OutpassHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OutpassHandler", operation, attrs...)
}

func (h *OutpassHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotLoggedIn)
		return
	}

	requests := h.service.ListOutpassRequests(identity)
	h.log(r.Context(), "List").With("result_count", len(requests)).InfoContext(r.Context(), "outpass requests listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOutpassResponse{OutpassRequests: requests})
}

// Create files a request for the logged in student; the student fields come
// from the session identity, not the body.
func (h *OutpassHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotLoggedIn)
		return
	}

	var req outpassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode outpass request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	request, err := h.service.AddOutpassRequest(r.Context(), application.OutpassInput{
		StudentID:   identity.ID,
		StudentName: identity.Name,
		RoomNumber:  identity.RoomNumber,
		Reason:      req.Reason,
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "outpass submission failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("outpass_id", request.ID).InfoContext(r.Context(), "outpass request submitted")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, outpassResponse{
		OutpassRequest: request,
		Notifications:  notificationsFrom(r.Context()),
	})
}

func (h *OutpassHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing outpass id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRecordID)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "outpass_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode outpass update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "outpass_id", id, "status", req.Status)
	request, err := h.service.UpdateOutpassRequest(r.Context(), id, application.OutpassStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		logger.ErrorContext(r.Context(), "outpass update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "outpass request updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, outpassResponse{
		OutpassRequest: request,
		Notifications:  notificationsFrom(r.Context()),
	})
}

type outpassRequest struct {
	Reason   string `json:"reason"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type outpassResponse struct {
	OutpassRequest application.OutpassRequest `json:"outpassRequest"`
	Notifications  []application.Notification `json:"notifications,omitempty"`
}

type listOutpassResponse struct {
	OutpassRequests []application.OutpassRequest `json:"outpassRequests"`
}
