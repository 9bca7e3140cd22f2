package application

import (
	"context"
	"log/slog"
	"sync"
)

// Notification variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a user-facing message describing the effect of an operation.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

// NotificationCollector gathers the notifications emitted while serving one
// request so the transport can return them alongside the result.
type NotificationCollector struct {
	mu    sync.Mutex
	items []Notification
}

// Drain returns the collected notifications in emission order.
func (c *NotificationCollector) Drain() []Notification {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

func (c *NotificationCollector) add(n Notification) {
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
}

type collectorKey struct{}

// ContextWithNotifications attaches a fresh collector to ctx.
func ContextWithNotifications(ctx context.Context) (context.Context, *NotificationCollector) {
	collector := &NotificationCollector{}
	return context.WithValue(ctx, collectorKey{}, collector), collector
}

// NotificationsFromContext returns the collector attached to ctx, if any.
func NotificationsFromContext(ctx context.Context) *NotificationCollector {
	if ctx == nil {
		return nil
	}
	collector, _ := ctx.Value(collectorKey{}).(*NotificationCollector)
	return collector
}

func notify(ctx context.Context, logger *slog.Logger, title, description string) {
	emit(ctx, logger, Notification{Title: title, Description: description, Variant: VariantDefault})
}

func notifyFailure(ctx context.Context, logger *slog.Logger, title, description string) {
	emit(ctx, logger, Notification{Title: title, Description: description, Variant: VariantDestructive})
}

func emit(ctx context.Context, logger *slog.Logger, n Notification) {
	if collector := NotificationsFromContext(ctx); collector != nil {
		collector.add(n)
	}
	if logger != nil {
		logger.DebugContext(ctx, "notification emitted", "title", n.Title, "variant", n.Variant)
	}
}
