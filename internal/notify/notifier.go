// Package notify is the outbound document-event channel. Delivery is
// fire-and-forget: the store never waits on, or fails because of, a
// notification.
package notify

import (
	"context"
	"log/slog"

	models "docvault/internal/domain/models/docstore"
)

// DocumentUpdate is the payload sent when a document's status changes.
type DocumentUpdate struct {
	ID     string        `json:"id"`
	Status models.Status `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// Notifier publishes document updates to an external channel.
type Notifier interface {
	// DocumentUpdated is called after the row update has committed. No
	// delivery guarantee; implementations must not block the caller.
	DocumentUpdated(ctx context.Context, userID string, update DocumentUpdate)
}

// LogNotifier writes update events to the structured log. It stands in for
// a realtime broadcast backend, which is owned by an external layer.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// DocumentUpdated logs the update event
func (n *LogNotifier) DocumentUpdated(ctx context.Context, userID string, update DocumentUpdate) {
	n.logger.Info("document updated",
		"user_id", userID,
		"document_id", update.ID,
		"status", update.Status,
		"error", update.Error,
	)
}
