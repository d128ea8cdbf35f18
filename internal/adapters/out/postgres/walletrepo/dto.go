// Package walletrepo provides data transfer objects and mapping functions for wallet persistence.
// This package implements the repository pattern for courier wallets, their append-only
// ledger, and station commission wallets.
package walletrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults supplies the initial values for wallets created on first use.
// The credit limit must be zero or negative, the commission rate must fall
// inside the bounds enforced by the domain.
type Defaults struct {
	CreditLimit    decimal.Decimal
	CommissionRate decimal.Decimal
}

// CourierWalletDTO represents the database structure for persisting courier wallets.
// One row per courier, created lazily on the first wallet operation.
type CourierWalletDTO struct {
	CourierID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Balance     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName specifies the database table name for courier wallet entities.
func (CourierWalletDTO) TableName() string {
	return "courier_wallets"
}

// LedgerEntryDTO represents the database structure for persisting ledger entries.
// The composite unique index is the storage-level idempotency guarantee: a
// second FeeDebit for the same courier and delivery violates it even if two
// transactions race past the row locks. Entries without a delivery reference
// (manual adjustments) store NULL, which the index treats as distinct.
type LedgerEntryDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CourierID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_ledger_entry_dedupe"`
	DeliveryID   *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_ledger_entry_dedupe"`
	EntryType    int             `gorm:"type:int;not null;uniqueIndex:idx_ledger_entry_dedupe"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Description  string          `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

// TableName specifies the database table name for ledger entry entities.
func (LedgerEntryDTO) TableName() string {
	return "wallet_ledger_entries"
}

// StationWalletDTO represents the database structure for persisting station commission wallets.
type StationWalletDTO struct {
	StationID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Balance        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,4);not null"`
}

// TableName specifies the database table name for station wallet entities.
func (StationWalletDTO) TableName() string {
	return "station_wallets"
}

func walletFromDomain(w *wallet.CourierWallet) CourierWalletDTO {
	return CourierWalletDTO{
		CourierID:   w.CourierID().Bytes(),
		Balance:     w.Balance(),
		CreditLimit: w.CreditLimit(),
	}
}

func walletToDomain(dto CourierWalletDTO) (*wallet.CourierWallet, error) {
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	return wallet.RestoreCourierWallet(courierID, dto.Balance, dto.CreditLimit)
}

func entryFromDomain(e *wallet.LedgerEntry) LedgerEntryDTO {
	var deliveryID *uuid.UUID
	if id := e.DeliveryID(); id != nil {
		raw := id.Bytes()
		deliveryID = &raw
	}

	return LedgerEntryDTO{
		ID:           e.ID().Bytes(),
		CourierID:    e.CourierID().Bytes(),
		DeliveryID:   deliveryID,
		EntryType:    int(e.Type()),
		Amount:       e.Amount(),
		BalanceAfter: e.BalanceAfter(),
		Description:  e.Description(),
		CreatedAt:    e.CreatedAt(),
	}
}

func stationWalletFromDomain(w *wallet.StationWallet) StationWalletDTO {
	return StationWalletDTO{
		StationID:      w.StationID().Bytes(),
		Balance:        w.Balance(),
		CommissionRate: w.CommissionRate(),
	}
}

func stationWalletToDomain(dto StationWalletDTO) (*wallet.StationWallet, error) {
	stationID, err := kernel.UUIDFromBytes(dto.StationID[:])
	if err != nil {
		return nil, err
	}

	return wallet.RestoreStationWallet(stationID, dto.Balance, dto.CommissionRate)
}
