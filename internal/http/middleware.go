package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/example/hostel-dashboard/internal/access"
	"github.com/example/hostel-dashboard/internal/application"
)

type sessionOpener interface {
	Open(ctx context.Context, clientID string) (*application.SessionStore, error)
}

type tokenParser interface {
	Parse(token string) (SessionClaims, error)
}

// SessionResolver turns a request token into the client's restored session.
type SessionResolver struct {
	sessions sessionOpener
	tokens   tokenParser
}

// NewSessionResolver returns a resolver opening sessions through sessions.
func NewSessionResolver(sessions sessionOpener, tokens tokenParser) *SessionResolver {
	return &SessionResolver{sessions: sessions, tokens: tokens}
}

// resolve returns the session named by the request token. A token whose
// namespace is logged out, or whose role no longer matches the stored role,
// yields ErrNotLoggedIn together with the opened session so callers can still
// reuse the client id.
func (s *SessionResolver) resolve(r *http.Request) (requestSession, application.Identity, error) {
	if s == nil || s.sessions == nil || s.tokens == nil {
		return requestSession{}, application.Identity{}, application.ErrNotLoggedIn
	}
	token := extractTokenFromRequest(r)
	if token == "" {
		return requestSession{}, application.Identity{}, errMissingSessionToken
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return requestSession{}, application.Identity{}, errors.Join(application.ErrNotLoggedIn, err)
	}
	store, err := s.sessions.Open(r.Context(), claims.ClientID())
	if err != nil {
		return requestSession{}, application.Identity{}, err
	}
	session := requestSession{clientID: claims.ClientID(), store: store}
	identity, ok := store.Current()
	if !ok || identity.Role != claims.Role {
		return session, application.Identity{}, application.ErrNotLoggedIn
	}
	return session, identity, nil
}

// RequireSession rejects requests without a live session and attaches the
// identity to the request context.
func RequireSession(resolver *SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, identity, err := resolver.resolve(r)
			if err != nil {
				switch {
				case errors.Is(err, errMissingSessionToken):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						Message:  errMissingSessionToken.Error(),
						Redirect: access.LandingPath,
					})
				case errors.Is(err, application.ErrNotLoggedIn):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						ErrorCode: "AUTH_SESSION_EXPIRED",
						Message:   errSessionExpired.Error(),
						Redirect:  access.LandingPath,
					})
				default:
					responder.loggerFor(r.Context()).ErrorContext(r.Context(), "session lookup failed", "error", err, "error_kind", application.ErrorKind(err))
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "The session could not be verified."})
				}
				return
			}

			ctx := contextWithSession(r.Context(), session)
			ctx = ContextWithIdentity(ctx, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches the session when the request carries a usable
// token and serves anonymous requests otherwise.
func OptionalSession(resolver *SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, identity, err := resolver.resolve(r)
			ctx := r.Context()
			if session.store != nil {
				ctx = contextWithSession(ctx, session)
			}
			if err == nil {
				ctx = ContextWithIdentity(ctx, identity)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePage admits identities whose role may open at least one of paths and
// answers 403 with a dashboard redirect otherwise.
func RequirePage(logger *slog.Logger, paths ...string) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					Message:  statusMessage(http.StatusUnauthorized),
					Redirect: access.LandingPath,
				})
				return
			}
			if !access.AnyAllows(identity.Role, paths...) {
				responder.loggerFor(r.Context()).WarnContext(r.Context(), "page gate rejected request", "role", identity.Role, "pages", paths)
				responder.writeJSON(r.Context(), w, http.StatusForbidden, errorResponse{
					ErrorCode: "AUTH_FORBIDDEN",
					Message:   statusMessage(http.StatusForbidden),
					Redirect:  access.DashboardPath,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole narrows a page to the listed roles for one operation, such as
// filing a complaint, which only students do.
func RequireRole(logger *slog.Logger, roles ...application.Role) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if ok && slices.Contains(roles, identity.Role) {
				next.ServeHTTP(w, r)
				return
			}
			responder.writeJSON(r.Context(), w, http.StatusForbidden, errorResponse{
				ErrorCode: "AUTH_FORBIDDEN",
				Message:   statusMessage(http.StatusForbidden),
				Redirect:  access.DashboardPath,
			})
		})
	}
}

// CollectNotifications gives every request a notification collector.
func CollectNotifications(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := application.ContextWithNotifications(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			recorder := newStatusRecorder(w)
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(recorder, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "status", recorder.status, "duration", time.Since(start))
		})
	}
}

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

func instrument(observer RequestObserver, route string, next http.Handler) http.Handler {
	if observer == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := newStatusRecorder(w)
		next.ServeHTTP(recorder, r)
		observer.ObserveRequest(r.Method, route, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
