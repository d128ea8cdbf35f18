package ports

import (
	"context"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/webhook"
)

// WebhookEventRepository defines the persistence contract for inbound message
// dedupe records, keyed by (platform, message id).
type WebhookEventRepository interface {
	// Add persists a new dedupe record in Processing status. The store enforces
	// the (platform, message id) primary key, so a concurrent insert of the same
	// inbound message fails at the database level.
	Add(ctx context.Context, event *webhook.Event) error

	// Update persists the record's status transition.
	Update(ctx context.Context, event *webhook.Event) error

	// Get retrieves the dedupe record for an inbound message, or an
	// object-not-found error when the message was never seen.
	Get(ctx context.Context, platform outbox.Platform, messageID string) (*webhook.Event, error)
}
