package ports

import (
	"context"

	"dispatch/internal/core/domain/model/outbox"
)

// Notifier delivers a single outbox message to a single recipient on one
// messaging platform. Implementations live entirely outside the database
// transaction that enqueued the message.
type Notifier interface {
	// Send attempts delivery of the message to the given recipient chat.
	// For broadcast messages the caller resolves recipients and invokes Send
	// once per recipient.
	Send(ctx context.Context, message *outbox.Message, recipientChatID string) error
}

// LivePublisher pushes best-effort live updates to connected clients after a
// business transaction commits. Publish failures must never affect the
// committed operation; callers log and move on.
type LivePublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
