package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/outbox"
)

// OutboxRepository defines the persistence contract for queued outward
// notifications. Messages are written inside the same transaction as the
// business state change they announce.
type OutboxRepository interface {
	// Add persists a new pending message to the outbox.
	Add(ctx context.Context, message *outbox.Message) error

	// Update persists changes to a message's delivery state and retry bookkeeping.
	Update(ctx context.Context, message *outbox.Message) error

	// ClaimPending retrieves up to limit pending messages that are due at now,
	// oldest first, skipping rows locked by other workers. Claimed rows stay
	// locked until the current transaction ends, so two concurrent workers
	// never pick up the same message.
	ClaimPending(ctx context.Context, limit int, now time.Time) ([]*outbox.Message, error)
}
