package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
)

// WalletRepository defines the persistence contract for courier wallets and
// their append-only ledger.
type WalletRepository interface {
	// GetOrCreateForUpdate retrieves the courier's wallet, creating a zero-balance
	// wallet on first use, and takes an exclusive row lock on it for the remainder
	// of the current transaction. All balance mutations must load the wallet this
	// way so concurrent debits serialize.
	GetOrCreateForUpdate(ctx context.Context, courierID kernel.UUID) (*wallet.CourierWallet, error)

	// Update persists the wallet's new balance.
	Update(ctx context.Context, aggregate *wallet.CourierWallet) error

	// AddLedgerEntry appends an immutable ledger entry. The store enforces a
	// unique constraint on (courier, delivery, entry type), so a duplicate
	// financial event for the same delivery is rejected at the database level
	// even if every in-process check were bypassed.
	AddLedgerEntry(ctx context.Context, entry *wallet.LedgerEntry) error
}

// StationWalletRepository defines the persistence contract for station
// commission wallets.
type StationWalletRepository interface {
	// GetOrCreateForUpdate retrieves the station's commission wallet, creating
	// one with the default commission rate on first use, and takes an exclusive
	// row lock on it for the remainder of the current transaction.
	GetOrCreateForUpdate(ctx context.Context, stationID kernel.UUID) (*wallet.StationWallet, error)

	// Update persists the station wallet's new balance.
	Update(ctx context.Context, aggregate *wallet.StationWallet) error
}
