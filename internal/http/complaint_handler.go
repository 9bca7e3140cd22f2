package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
)

type complaintService interface {
	AddComplaint(ctx context.Context, input application.ComplaintInput) (application.Complaint, error)
	UpdateComplaint(ctx context.Context, id string, status application.ComplaintStatus) (application.Complaint, error)
	ListComplaints(viewer application.Identity) []application.Complaint
}

type ComplaintHandler struct {
	service   complaintService
	responder responder
	logger    *slog.Logger
}

func NewComplaintHandler(service complaintService, logger *slog.Logger) *ComplaintHandler {
	base := defaultLogger(logger)
	return &ComplaintHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ComplaintHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ComplaintHandler", operation, attrs...)
}

func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotLoggedIn)
		return
	}

	complaints := h.service.ListComplaints(identity)
	h.log(r.Context(), "List").With("result_count", len(complaints)).InfoContext(r.Context(), "complaints listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listComplaintsResponse{Complaints: complaints})
}

func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotLoggedIn)
		return
	}

	var req complaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode complaint", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "category", req.Category)
	complaint, err := h.service.AddComplaint(r.Context(), application.ComplaintInput{
		StudentID:   identity.ID,
		StudentName: identity.Name,
		RoomNumber:  identity.RoomNumber,
		Category:    application.ComplaintCategory(strings.TrimSpace(req.Category)),
		Description: req.Description,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "complaint submission failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("complaint_id", complaint.ID).InfoContext(r.Context(), "complaint submitted")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, complaintResponse{
		Complaint:     complaint,
		Notifications: notificationsFrom(r.Context()),
	})
}

func (h *ComplaintHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing complaint id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRecordID)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "complaint_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode complaint update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "complaint_id", id, "status", req.Status)
	complaint, err := h.service.UpdateComplaint(r.Context(), id, application.ComplaintStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		logger.ErrorContext(r.Context(), "complaint update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "complaint updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, complaintResponse{
		Complaint:     complaint,
		Notifications: notificationsFrom(r.Context()),
	})
}

type complaintRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

type complaintResponse struct {
	Complaint     application.Complaint      `json:"complaint"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}

type listComplaintsResponse struct {
	Complaints []application.Complaint `json:"complaints"`
}
