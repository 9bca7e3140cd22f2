package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/hostel-dashboard/internal/access"
	"github.com/example/hostel-dashboard/internal/application"
)

type tokenIssuer interface {
	Issue(clientID string, role application.Role) (string, time.Time, error)
}

type SessionHandler struct {
	sessions  sessionOpener
	tokens    tokenIssuer
	newClient func() string
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(sessions sessionOpener, tokens tokenIssuer, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{
		sessions:  sessions,
		tokens:    tokens,
		newClient: application.NewClientID,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

// openStore reuses the client session resolved from the request token and
// opens a fresh client namespace otherwise.
func (h *SessionHandler) openStore(ctx context.Context) (requestSession, error) {
	if session, ok := sessionFromContext(ctx); ok && session.store != nil {
		return session, nil
	}
	clientID := h.newClient()
	store, err := h.sessions.Open(ctx, clientID)
	if err != nil {
		return requestSession{}, err
	}
	return requestSession{clientID: clientID, store: store}, nil
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil || h.tokens == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateSession", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	email := strings.TrimSpace(req.Email)
	logger := h.log(r.Context(), "CreateSession", "email", email, "requested_role", req.Role)

	session, err := h.openStore(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to open client session", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	role, _ := application.ParseRole(req.Role)
	identity, err := session.store.Login(r.Context(), application.Credentials{
		Email:    email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(session.clientID, identity.Role)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to issue session token", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	setSessionCookie(w, token, expiresAt)
	w.Header().Set("X-Session-Token", token)

	logger.With("user_id", identity.ID).InfoContext(r.Context(), "user authenticated")

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, loginResponse{
		Token:         token,
		ExpiresAt:     expiresAt.UTC().Format(time.RFC3339),
		User:          identity,
		Navigation:    access.Navigation(identity.Role),
		Notifications: notificationsFrom(r.Context()),
	})
}

func (h *SessionHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.log(r.Context(), "CurrentSession", "error_kind", "unauthorized").WarnContext(r.Context(), "missing identity for current session")
		h.responder.handleServiceError(r.Context(), w, application.ErrNotLoggedIn)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{
		User:       identity,
		Navigation: access.Navigation(identity.Role),
	})
}

func (h *SessionHandler) DeleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "DeleteCurrentSession")
	if session, ok := sessionFromContext(r.Context()); ok && session.store != nil {
		if err := session.store.Logout(r.Context()); err != nil {
			logger.ErrorContext(r.Context(), "failed to log out", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		logger = logger.With("client_id", session.clientID)
	}

	clearSessionCookie(w)
	logger.InfoContext(r.Context(), "session closed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode registration", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Register", "email", strings.TrimSpace(req.Email))
	session, err := h.openStore(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to open client session", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if err := session.store.Register(r.Context(), req.toInput()); err != nil {
		logger.WarnContext(r.Context(), "registration rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusAccepted, notificationsResponse{
		Notifications: notificationsFrom(r.Context()),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token         string                     `json:"token"`
	ExpiresAt     string                     `json:"expiresAt"`
	User          application.Identity       `json:"user"`
	Navigation    []access.Page              `json:"navigation"`
	Notifications []application.Notification `json:"notifications,omitempty"`
}

type sessionResponse struct {
	User       application.Identity `json:"user"`
	Navigation []access.Page        `json:"navigation"`
}

type registrationRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	RoomNumber    string `json:"roomNumber"`
	RollNumber    string `json:"rollNumber"`
	ParentContact string `json:"parentContact"`
}

func (r registrationRequest) toInput() application.RegistrationInput {
	return application.RegistrationInput{
		Name:          r.Name,
		Email:         r.Email,
		RoomNumber:    strings.TrimSpace(r.RoomNumber),
		RollNumber:    strings.TrimSpace(r.RollNumber),
		ParentContact: strings.TrimSpace(r.ParentContact),
	}
}

type notificationsResponse struct {
	Notifications []application.Notification `json:"notifications"`
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     "session_token",
		Value:    token,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
	if !expires.IsZero() {
		cookie.Expires = expires.UTC()
	}
	http.SetCookie(w, cookie)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func extractTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	return ""
}
