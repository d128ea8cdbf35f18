// Package ports defines repository and outbound interfaces for the dispatch domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
// Provides methods for storing, retrieving, and locking delivery entities
// through their lifecycle.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate to storage.
	// The delivery must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate.
	// The delivery must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate retrieves a delivery and takes an exclusive row lock on it
	// for the remainder of the current transaction. Every status transition
	// with financial side effects must load the delivery this way, so
	// concurrent attempts serialize on the row and the loser observes the
	// winner's committed status.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByTokenForUpdate retrieves a delivery by its public token and takes an
	// exclusive row lock on it, for capture flows entered through outward links.
	GetByTokenForUpdate(ctx context.Context, token kernel.Token) (*delivery.Delivery, error)

	// GetAllOpen retrieves all deliveries currently available for capture,
	// newest first.
	GetAllOpen(ctx context.Context) ([]*delivery.Delivery, error)
}
