package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
)

var (
	errBadRequestBody      = errors.New("The request body is not valid.")
	errMissingRecordID     = errors.New("A record id is required.")
	errMissingSessionToken = errors.New("A session token is required.")
	errSessionExpired      = errors.New("Your session has ended. Please log in again.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message, Notifications: notificationsFrom(ctx)})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	notifications := notificationsFrom(ctx)
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode:     "AUTH_INVALID_CREDENTIALS",
			Message:       "Invalid credentials",
			Notifications: notifications,
		})
	case errors.Is(err, application.ErrNotLoggedIn):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode:     "AUTH_SESSION_EXPIRED",
			Message:       errSessionExpired.Error(),
			Notifications: notifications,
		})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode:     "AUTH_FORBIDDEN",
			Message:       statusMessage(http.StatusForbidden),
			Notifications: notifications,
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			Message:       statusMessage(http.StatusNotFound),
			Notifications: notifications,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// 499 is not registered with net/http; the client is gone either way.
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Message: "The request was cancelled."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message:       statusMessage(http.StatusUnprocessableEntity),
				Errors:        vErr.FieldErrors,
				Notifications: notifications,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request is not valid."
	case http.StatusUnauthorized:
		return "Please log in to continue."
	case http.StatusForbidden:
		return "You do not have access to this page."
	case http.StatusNotFound:
		return "The requested record was not found."
	case http.StatusUnprocessableEntity:
		return "Please correct the highlighted fields."
	default:
		return "Something went wrong on our side."
	}
}

func notificationsFrom(ctx context.Context) []application.Notification {
	notifications := application.NotificationsFromContext(ctx).Drain()
	if len(notifications) == 0 {
		return nil
	}
	return notifications
}

type errorResponse struct {
	ErrorCode     string                     `json:"error_code,omitempty"`
	Message       string                     `json:"message"`
	Redirect      string                     `json:"redirect,omitempty"`
	Errors        map[string]string          `json:"errors,omitempty"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}
