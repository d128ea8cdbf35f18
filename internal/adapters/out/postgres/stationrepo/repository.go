package stationrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/station"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStationRepository implements StationRepository using GORM.
type GormStationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStationRepository creates a new GORM station repository.
func NewGormStationRepository(db *gorm.DB, tracker aggregateTracker) *GormStationRepository {
	return &GormStationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new station to the database.
func (r *GormStationRepository) Add(ctx context.Context, aggregate *station.Station) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing station to the database.
func (r *GormStationRepository) Update(ctx context.Context, aggregate *station.Station) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Use Session with FullSaveAssociations to properly update nested associations
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a station by ID including its dispatcher and blacklist membership.
func (r *GormStationRepository) Get(ctx context.Context, id kernel.UUID) (*station.Station, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StationDTO
	err := r.db.WithContext(ctx).
		Preload("Dispatchers").
		Preload("BlacklistedCouriers").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("station", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
