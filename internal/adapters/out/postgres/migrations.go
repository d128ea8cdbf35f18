package postgres

import (
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/outboxrepo"
	"dispatch/internal/adapters/out/postgres/stationrepo"
	"dispatch/internal/adapters/out/postgres/walletrepo"
	"dispatch/internal/adapters/out/postgres/webhookrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the database schema for every persisted aggregate,
// including the ledger dedupe index and the outbox claim index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&walletrepo.CourierWalletDTO{},
		&walletrepo.LedgerEntryDTO{},
		&walletrepo.StationWalletDTO{},
		&stationrepo.StationDTO{},
		&stationrepo.DispatcherDTO{},
		&stationrepo.BlacklistedCourier{},
		&courierrepo.CourierDTO{},
		&outboxrepo.MessageDTO{},
		&webhookrepo.EventDTO{},
	)
}
