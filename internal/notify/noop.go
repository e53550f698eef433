package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded alerts. It is
// used when alerts are disabled, so the rest of the pipeline (including
// alert bookkeeping) behaves identically in dry runs.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs and discards a single alert.
func (n *NoOpNotifier) Send(_ context.Context, alert *AlertPayload) error {
	n.log.Debug("notification discarded (alerts disabled)",
		"category", alert.Category,
		"title", alert.Title,
		"url", alert.URL,
	)
	return nil
}
