package walletrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWalletRepository implements WalletRepository using GORM.
type GormWalletRepository struct {
	db       *gorm.DB
	tracker  aggregateTracker
	defaults Defaults
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWalletRepository creates a new GORM courier wallet repository.
func NewGormWalletRepository(db *gorm.DB, tracker aggregateTracker, defaults Defaults) *GormWalletRepository {
	return &GormWalletRepository{
		db:       db,
		tracker:  tracker,
		defaults: defaults,
	}
}

// GetOrCreateForUpdate retrieves a courier's wallet holding a row lock, creating
// it with a zero balance and the configured credit limit on first use. The lock
// serializes concurrent balance changes for the same courier; the insert runs
// inside the caller's transaction so a rollback discards the new wallet too.
func (r *GormWalletRepository) GetOrCreateForUpdate(ctx context.Context, courierID kernel.UUID) (*wallet.CourierWallet, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto CourierWalletDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "courier_id = ?", courierID.Bytes()).Error
	if err == nil {
		return walletToDomain(dto)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	w, err := wallet.NewCourierWallet(courierID, r.defaults.CreditLimit)
	if err != nil {
		return nil, err
	}

	dto = walletFromDomain(w)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(courierID, w)
	return w, nil
}

// Update saves an existing wallet's balance to the database.
func (r *GormWalletRepository) Update(ctx context.Context, aggregate *wallet.CourierWallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := walletFromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.CourierID(), aggregate)
	return nil
}

// AddLedgerEntry appends an immutable entry to the courier's ledger. Entries
// are only ever inserted; a violation of the dedupe index surfaces here as a
// database error and aborts the surrounding transaction.
func (r *GormWalletRepository) AddLedgerEntry(ctx context.Context, entry *wallet.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}
