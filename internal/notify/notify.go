// Package notify delivers user-facing notifications. Delivery is best
// effort: callers fire notifications through the tasks runner and failures
// are logged, never surfaced.
package notify

import (
	"context"
	"log/slog"
)

// Notifier is the notification collaborator.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes notifications to the log. It is the fallback used when
// no delivery channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify records the notification in the log.
func (n *LogNotifier) Notify(ctx context.Context, title, body string) error {
	n.logger.InfoContext(ctx, "notification", "title", title, "body", body)
	return nil
}
