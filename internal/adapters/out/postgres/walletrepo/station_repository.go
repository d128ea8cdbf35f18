package walletrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStationWalletRepository implements StationWalletRepository using GORM.
type GormStationWalletRepository struct {
	db       *gorm.DB
	tracker  aggregateTracker
	defaults Defaults
}

// NewGormStationWalletRepository creates a new GORM station wallet repository.
func NewGormStationWalletRepository(db *gorm.DB, tracker aggregateTracker, defaults Defaults) *GormStationWalletRepository {
	return &GormStationWalletRepository{
		db:       db,
		tracker:  tracker,
		defaults: defaults,
	}
}

// GetOrCreateForUpdate retrieves a station's commission wallet holding a row
// lock, creating it with a zero balance and the configured commission rate on
// first use.
func (r *GormStationWalletRepository) GetOrCreateForUpdate(ctx context.Context, stationID kernel.UUID) (*wallet.StationWallet, error) {
	if err := stationID.Validate(); err != nil {
		return nil, err
	}

	var dto StationWalletDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "station_id = ?", stationID.Bytes()).Error
	if err == nil {
		return stationWalletToDomain(dto)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	w, err := wallet.NewStationWallet(stationID, r.defaults.CommissionRate)
	if err != nil {
		return nil, err
	}

	dto = stationWalletFromDomain(w)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(stationID, w)
	return w, nil
}

// Update saves an existing station wallet's balance to the database.
func (r *GormStationWalletRepository) Update(ctx context.Context, aggregate *wallet.StationWallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := stationWalletFromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.StationID(), aggregate)
	return nil
}
