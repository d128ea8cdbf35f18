package notify

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/outbox"
)

// LogNotifier writes messages to the structured log instead of a real
// transport. Used when a platform has no relay endpoint configured, so local
// and test environments drain the outbox without external dependencies.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With("component", "log_notifier"),
	}
}

// Send logs the message and always succeeds.
func (n *LogNotifier) Send(ctx context.Context, message *outbox.Message, recipientChatID string) error {
	n.logger.InfoContext(ctx, "outbox message delivered to log",
		"message_id", message.ID().String(),
		"platform", message.Platform().String(),
		"recipient", recipientChatID,
		"message_type", message.MessageType(),
	)
	return nil
}
