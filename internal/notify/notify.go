// Package notify is the push-notification delivery collaborator: a
// background listener hands title/body payloads to a Notifier. It is not
// part of the sync or timer core.
package notify

import (
	"context"
	"log/slog"
)

// Notifier displays a notification to the user.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes notifications to a structured logger. The CLI uses it
// as the system-notification stand-in.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, title, body string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification", "title", title, "body", body)
	return nil
}
