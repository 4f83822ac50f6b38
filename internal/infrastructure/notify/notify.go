// Package notify delivers store notifications to logs and to the HTTP
// response of the request that caused them.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/bankchat/internal/domain"
)

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

// Notify logs n at a level matching its kind.
func (n *LogNotifier) Notify(ctx context.Context, note domain.Notification) {
	event := n.logger.Info()
	if note.Level == domain.NotificationError {
		event = n.logger.Warn()
	}
	event.Str("kind", string(note.Level)).Msg(note.Message)
}

// Collector gathers the notifications of one request.
type Collector struct {
	mu    sync.Mutex
	items []domain.Notification
}

// Add appends a notification.
func (c *Collector) Add(note domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, note)
}

// Items returns the collected notifications in arrival order.
func (c *Collector) Items() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

type collectorKey struct{}

// WithCollector returns a context carrying c.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// CollectorFrom returns the collector carried by ctx, if any.
func CollectorFrom(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok
}

// ContextNotifier adds notifications to the collector found in the
// context. Notifications without one are dropped.
type ContextNotifier struct{}

// Notify implements usecase.Notifier.
func (ContextNotifier) Notify(ctx context.Context, note domain.Notification) {
	if c, ok := CollectorFrom(ctx); ok {
		c.Add(note)
	}
}

type notifier interface {
	Notify(ctx context.Context, note domain.Notification)
}

// Multi fans a notification out to every notifier in order.
type Multi []notifier

// Notify implements usecase.Notifier.
func (m Multi) Notify(ctx context.Context, note domain.Notification) {
	for _, n := range m {
		n.Notify(ctx, note)
	}
}
