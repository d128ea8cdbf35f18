// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work pattern maintains a list of objects affected by a business
// transaction and coordinates writing out changes and resolving concurrency problems.
//
// Every command handler works against the same shape:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	d, err := uow.DeliveryRepository().GetForUpdate(ctx, id)
//	// ... mutate aggregates, persist through the repositories
//
//	return uow.Commit(ctx)
//
// Repositories obtained from an active unit of work run inside its transaction,
// so row locks taken by GetForUpdate / GetOrCreateForUpdate hold until Commit or
// Rollback. Each unit of work instance owns exactly one transaction; concurrent
// goroutines must use separate instances.
package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/outboxrepo"
	"dispatch/internal/adapters/out/postgres/stationrepo"
	"dispatch/internal/adapters/out/postgres/walletrepo"
	"dispatch/internal/adapters/out/postgres/webhookrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// Useful for implementing patterns like event sourcing on top of the outbox.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{} // Will be changed to a common Aggregate interface in the future
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db             *gorm.DB
	walletDefaults walletrepo.Defaults
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The wallet defaults seed courier and station wallets created lazily on first use.
func NewGormUnitOfWorkFactory(db *gorm.DB, walletDefaults walletrepo.Defaults) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:             db,
		walletDefaults: walletDefaults,
	}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
// Each instance maintains its own transaction state and aggregate tracking,
// ensuring proper isolation between concurrent operations.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		walletDefaults:    f.walletDefaults,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate changes
// for business operations. Implements the Unit of Work pattern using GORM's
// transaction capabilities to ensure data consistency and proper rollback handling.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	walletDefaults    walletrepo.Defaults
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Subsequent repository operations will execute within this transaction context.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// After commit, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// After rollback, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn returns the active transaction when one exists, otherwise the main
// database connection for immediate execution.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// DeliveryRepository provides access to delivery persistence operations within the unit of work.
func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn(), uow)
}

// WalletRepository provides access to courier wallet and ledger persistence
// operations within the unit of work.
func (uow *GormUnitOfWork) WalletRepository() ports.WalletRepository {
	return walletrepo.NewGormWalletRepository(uow.conn(), uow, uow.walletDefaults)
}

// StationWalletRepository provides access to station commission wallet
// persistence operations within the unit of work.
func (uow *GormUnitOfWork) StationWalletRepository() ports.StationWalletRepository {
	return walletrepo.NewGormStationWalletRepository(uow.conn(), uow, uow.walletDefaults)
}

// StationRepository provides access to station persistence operations within the unit of work.
func (uow *GormUnitOfWork) StationRepository() ports.StationRepository {
	return stationrepo.NewGormStationRepository(uow.conn(), uow)
}

// CourierRepository provides access to courier persistence operations within the unit of work.
func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn(), uow)
}

// OutboxRepository provides access to outbox message persistence operations within the unit of work.
func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn(), uow)
}

// WebhookEventRepository provides access to inbound dedupe record persistence
// operations within the unit of work.
func (uow *GormUnitOfWork) WebhookEventRepository() ports.WebhookEventRepository {
	return webhookrepo.NewGormWebhookEventRepository(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit of work.
// This method is typically called by repository implementations when aggregates
// are added, updated, or otherwise modified.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
