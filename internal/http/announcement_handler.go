package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
)

type announcementService interface {
	AddAnnouncement(ctx context.Context, input application.AnnouncementInput) (application.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
	ListAnnouncements() []application.Announcement
}

type AnnouncementHandler struct {
	service   announcementService
	responder responder
	logger    *slog.Logger
}

func NewAnnouncementHandler(service announcementService, logger *slog.Logger) *AnnouncementHandler {
	base := defaultLogger(logger)
	return &AnnouncementHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AnnouncementHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AnnouncementHandler", operation, attrs...)
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	announcements := h.service.ListAnnouncements()
	h.log(r.Context(), "List").With("result_count", len(announcements)).InfoContext(r.Context(), "announcements listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAnnouncementsResponse{Announcements: announcements})
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode announcement", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "category", req.Category)
	announcement, err := h.service.AddAnnouncement(r.Context(), application.AnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: application.AnnouncementCategory(strings.TrimSpace(req.Category)),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "announcement creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("announcement_id", announcement.ID).InfoContext(r.Context(), "announcement published")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, announcementResponse{
		Announcement:  announcement,
		Notifications: notificationsFrom(r.Context()),
	})
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing announcement id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRecordID)
		return
	}

	logger := h.log(r.Context(), "Delete", "announcement_id", id)
	if err := h.service.DeleteAnnouncement(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "announcement delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "announcement deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, notificationsResponse{Notifications: notificationsFrom(r.Context())})
}

type announcementRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type announcementResponse struct {
	Announcement  application.Announcement   `json:"announcement"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}

type listAnnouncementsResponse struct {
	Announcements []application.Announcement `json:"announcements"`
}
