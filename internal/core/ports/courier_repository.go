package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllActiveByPlatform retrieves all active couriers reachable on the
	// given messaging platform. Used to fan broadcast notifications out to
	// every active courier at send time.
	GetAllActiveByPlatform(ctx context.Context, platform outbox.Platform) ([]*courier.Courier, error)
}
