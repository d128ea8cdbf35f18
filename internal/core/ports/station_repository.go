package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/station"
)

// StationRepository defines the persistence contract for station aggregates.
type StationRepository interface {
	// Add persists a new station aggregate to storage.
	Add(ctx context.Context, aggregate *station.Station) error

	// Update persists changes to an existing station aggregate,
	// including its dispatcher roster and courier blacklist.
	Update(ctx context.Context, aggregate *station.Station) error

	// Get retrieves a station aggregate by its unique identifier,
	// with its dispatcher roster and courier blacklist.
	Get(ctx context.Context, id kernel.UUID) (*station.Station, error)
}
