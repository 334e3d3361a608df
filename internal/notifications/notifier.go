// Package notifications provides Notifier sinks for admin toasts.
package notifications

import (
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Discard drops every notification.
func Discard() interfaces.Notifier { return discard{} }

type discard struct{}

func (discard) Notify(context.Context, interfaces.Notification) {}

// LogNotifier writes notifications as structured log entries. Danger maps to
// Error, warning to Warn and everything else to Info.
type LogNotifier struct {
	logger interfaces.Logger
}

func NewLogNotifier(logger interfaces.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notification interfaces.Notification) {
	logger := n.logger.WithContext(ctx)
	args := []any{"title", notification.Title, "severity", string(notification.Severity)}
	if notification.Body != "" {
		args = append(args, "body", notification.Body)
	}
	switch notification.Severity {
	case interfaces.SeverityDanger:
		logger.Error("notification", args...)
	case interfaces.SeverityWarning:
		logger.Warn("notification", args...)
	default:
		logger.Info("notification", args...)
	}
}

// Recorder keeps notifications in memory. The table layer uses one per
// request to hand the toast back with the action result.
type Recorder struct {
	mu    sync.Mutex
	items []interfaces.Notification
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(_ context.Context, notification interfaces.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, notification)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []interfaces.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (interfaces.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return interfaces.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Multi fans a notification out to every non-nil sink.
func Multi(sinks ...interfaces.Notifier) interfaces.Notifier {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multi []interfaces.Notifier

func (m multi) Notify(ctx context.Context, notification interfaces.Notification) {
	for _, s := range m {
		s.Notify(ctx, notification)
	}
}

type contextKey struct{}

// WithNotifier attaches a request scoped notifier to ctx.
func WithNotifier(ctx context.Context, notifier interfaces.Notifier) context.Context {
	return context.WithValue(ctx, contextKey{}, notifier)
}

// FromContext returns the notifier attached with WithNotifier.
func FromContext(ctx context.Context) (interfaces.Notifier, bool) {
	if ctx == nil {
		return nil, false
	}
	n, ok := ctx.Value(contextKey{}).(interfaces.Notifier)
	return n, ok && n != nil
}

// Contextual forwards to the notifier attached to ctx, if any, and always to
// fallback.
func Contextual(fallback interfaces.Notifier) interfaces.Notifier {
	if fallback == nil {
		fallback = Discard()
	}
	return contextual{fallback: fallback}
}

type contextual struct {
	fallback interfaces.Notifier
}

func (c contextual) Notify(ctx context.Context, notification interfaces.Notification) {
	if n, ok := FromContext(ctx); ok {
		n.Notify(ctx, notification)
	}
	c.fallback.Notify(ctx, notification)
}
