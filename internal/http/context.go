package http

import (
	"context"
	"log/slog"

	"github.com/example/hostel-dashboard/internal/application"
	"github.com/example/hostel-dashboard/internal/logging"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	sessionContextKey  contextKey = "session"
	pathIDContextKey   contextKey = "path_id"
	menuSlotContextKey contextKey = "menu_slot"
)

// menuSlot addresses one meal list of one day, as taken from the request path.
type menuSlot struct {
	day  string
	meal string
}

// requestSession is the client session resolved by the session middleware.
type requestSession struct {
	clientID string
	store    *application.SessionStore
}

// ContextWithIdentity returns a derived context containing the logged in identity.
func ContextWithIdentity(ctx context.Context, identity application.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the logged in identity from context if available.
func IdentityFromContext(ctx context.Context) (application.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(application.Identity)
	return identity, ok
}

func contextWithSession(ctx context.Context, session requestSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func sessionFromContext(ctx context.Context) (requestSession, bool) {
	session, ok := ctx.Value(sessionContextKey).(requestSession)
	return session, ok
}

// ContextWithPathID injects the record identifier resolved from the request path.
func ContextWithPathID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, pathIDContextKey, id)
}

// PathIDFromContext extracts a record identifier previously associated with the context.
func PathIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(pathIDContextKey).(string)
	return id, ok
}

func contextWithMenuSlot(ctx context.Context, slot menuSlot) context.Context {
	return context.WithValue(ctx, menuSlotContextKey, slot)
}

func menuSlotFromContext(ctx context.Context) (menuSlot, bool) {
	slot, ok := ctx.Value(menuSlotContextKey).(menuSlot)
	return slot, ok
}

// ContextWithLogger attaches a request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
