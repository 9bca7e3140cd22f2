package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
	"github.com/example/hostel-dashboard/internal/spreadsheet"
)

type attendanceService interface {
	UpdateMealAttendance(ctx context.Context, input application.AttendanceInput) (application.MealAttendance, error)
	ListMealAttendance(date string) []application.MealAttendance
	NotifyAbsentParents(ctx context.Context, notice application.AbsenceNotice) (int, error)
}

type AttendanceHandler struct {
	service   attendanceService
	responder responder
	logger    *slog.Logger
}

func NewAttendanceHandler(service attendanceService, logger *slog.Logger) *AttendanceHandler {
	base := defaultLogger(logger)
	return &AttendanceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AttendanceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AttendanceHandler", operation, attrs...)
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	records := h.service.ListMealAttendance(date)
	h.log(r.Context(), "List", "date", date).With("result_count", len(records)).InfoContext(r.Context(), "attendance listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAttendanceResponse{Attendance: records})
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode attendance update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "student_id", req.StudentID, "date", req.Date, "meal", req.Meal)
	record, err := h.service.UpdateMealAttendance(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("attendance_id", record.ID).InfoContext(r.Context(), "attendance marked")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, attendanceResponse{
		Attendance:    record,
		Notifications: notificationsFrom(r.Context()),
	})
}

// Export downloads the records of ?date= as an XLSX workbook.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	logger := h.log(r.Context(), "Export", "date", date)
	records := h.service.ListMealAttendance(date)

	var buf bytes.Buffer
	if err := spreadsheet.WriteAttendance(&buf, date, records); err != nil {
		logger.ErrorContext(r.Context(), "attendance export failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	name := "attendance.xlsx"
	if date != "" {
		name = fmt.Sprintf("attendance-%s.xlsx", date)
	}
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.ErrorContext(r.Context(), "failed to write attendance workbook", "error", err)
		return
	}
	logger.With("result_count", len(records)).InfoContext(r.Context(), "attendance exported")
}

func (h *AttendanceHandler) NotifyParents(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req absenceNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "NotifyParents", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode absence notice", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "NotifyParents", "date", req.Date, "meal", req.Meal, "requested", len(req.StudentIDs))
	notified, err := h.service.NotifyAbsentParents(r.Context(), application.AbsenceNotice{
		Date:       strings.TrimSpace(req.Date),
		Meal:       application.Meal(strings.ToLower(strings.TrimSpace(req.Meal))),
		StudentIDs: req.StudentIDs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "parent notification failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("notified", notified).InfoContext(r.Context(), "parents notified")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, absenceNoticeResponse{
		Notified:      notified,
		Notifications: notificationsFrom(r.Context()),
	})
}

type attendanceRequest struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Date        string `json:"date"`
	Meal        string `json:"meal"`
	Attended    bool   `json:"attended"`
}

func (r attendanceRequest) toInput() application.AttendanceInput {
	return application.AttendanceInput{
		StudentID:   r.StudentID,
		StudentName: r.StudentName,
		Date:        r.Date,
		Meal:        application.Meal(strings.ToLower(strings.TrimSpace(r.Meal))),
		Attended:    r.Attended,
	}
}

type attendanceResponse struct {
	Attendance    application.MealAttendance `json:"attendance"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}

type listAttendanceResponse struct {
	Attendance []application.MealAttendance `json:"attendance"`
}

type absenceNoticeRequest struct {
	Date       string   `json:"date"`
	Meal       string   `json:"meal"`
	StudentIDs []string `json:"studentIds"`
}

type absenceNoticeResponse struct {
	Notified      int                        `json:"notified"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}
