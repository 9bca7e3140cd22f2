package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
	"github.com/example/hostel-dashboard/internal/spreadsheet"
)

const maxRosterUploadBytes = 10 << 20

var errMissingRosterFile = errors.New("Upload the roster as the multipart field \"file\".")

type studentService interface {
	ListStudents(query string) []application.Student
	ImportStudents(ctx context.Context, rows []application.Student) (application.ImportResult, error)
	UpdateStudent(ctx context.Context, student application.Student) (application.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

type StudentHandler struct {
	service   studentService
	responder responder
	logger    *slog.Logger
}

func NewStudentHandler(service studentService, logger *slog.Logger) *StudentHandler {
	base := defaultLogger(logger)
	return &StudentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StudentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StudentHandler", operation, attrs...)
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("q")
	students := h.service.ListStudents(query)
	h.log(r.Context(), "List", "query", query).With("result_count", len(students)).InfoContext(r.Context(), "students listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStudentsResponse{Students: students})
}

// Import reads an XLSX roster from the multipart field "file".
func (h *StudentHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRosterUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.log(r.Context(), "Import", "error_kind", "bad_request").ErrorContext(r.Context(), "missing roster upload", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRosterFile)
		return
	}
	defer file.Close()

	logger := h.log(r.Context(), "Import", "filename", header.Filename, "size", header.Size)
	rows, err := spreadsheet.ReadStudents(file)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to read roster", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "The roster could not be read as an XLSX workbook.",
			Errors:  map[string]string{"file": err.Error()},
		})
		return
	}

	result, err := h.service.ImportStudents(r.Context(), rows)
	if err != nil {
		logger.ErrorContext(r.Context(), "roster import failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("imported", result.Imported, "skipped", result.Skipped).InfoContext(r.Context(), "roster imported")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, importStudentsResponse{
		ImportResult:  result,
		Notifications: notificationsFrom(r.Context()),
	})
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing student id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRecordID)
		return
	}

	var student application.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		h.log(r.Context(), "Update", "student_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode student", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	student.ID = id

	logger := h.log(r.Context(), "Update", "student_id", id)
	updated, err := h.service.UpdateStudent(r.Context(), student)
	if err != nil {
		logger.ErrorContext(r.Context(), "student update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "student updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, studentResponse{
		Student:       updated,
		Notifications: notificationsFrom(r.Context()),
	})
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing student id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRecordID)
		return
	}

	logger := h.log(r.Context(), "Delete", "student_id", id)
	if err := h.service.DeleteStudent(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "student delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "student removed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, notificationsResponse{Notifications: notificationsFrom(r.Context())})
}

type listStudentsResponse struct {
	Students []application.Student `json:"students"`
}

type studentResponse struct {
	Student       application.Student        `json:"student"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}

type importStudentsResponse struct {
	application.ImportResult
	Notifications []application.Notification `json:"notifications,omitempty"`
}
