package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
)

type menuService interface {
	Menu() []application.MenuItem
	MenuFor(day application.Weekday) (application.MenuItem, bool)
	UpdateMenuItems(ctx context.Context, day application.Weekday, meal application.Meal, items []string) (application.MenuItem, error)
}

type MenuHandler struct {
	service   menuService
	responder responder
	logger    *slog.Logger
}

func NewMenuHandler(service menuService, logger *slog.Logger) *MenuHandler {
	base := defaultLogger(logger)
	return &MenuHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *MenuHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MenuHandler", operation, attrs...)
}

// List returns the weekly menu, or the single day named by ?day=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if day := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("day"))); day != "" {
		item, ok := h.service.MenuFor(application.Weekday(day))
		if !ok {
			h.responder.handleServiceError(r.Context(), w, application.ErrNotFound)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, menuResponse{Menu: []application.MenuItem{item}})
		return
	}

	menu := h.service.Menu()
	h.log(r.Context(), "List").With("result_count", len(menu)).InfoContext(r.Context(), "menu listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, menuResponse{Menu: menu})
}

// Update replaces one meal list of one day. The router resolves day and meal
// from the path.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slot, ok := menuSlotFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing menu day or meal for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRecordID)
		return
	}
	day, meal := slot.day, slot.meal

	var req menuItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "day", day, "meal", meal, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode menu update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "day", day, "meal", meal, "item_count", len(req.Items))
	item, err := h.service.UpdateMenuItems(r.Context(),
		application.Weekday(strings.ToLower(day)),
		application.Meal(strings.ToLower(meal)),
		req.Items,
	)
	if err != nil {
		logger.ErrorContext(r.Context(), "menu update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "menu updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, menuItemResponse{
		MenuItem:      item,
		Notifications: notificationsFrom(r.Context()),
	})
}

type menuItemsRequest struct {
	Items []string `json:"items"`
}

type menuResponse struct {
	Menu []application.MenuItem `json:"menu"`
}

type menuItemResponse struct {
	MenuItem      application.MenuItem       `json:"menuItem"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}
