package wallet

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// ErrLedgerEntryIsNotConstructed is returned when a LedgerEntry was not created
// through NewLedgerEntry or RestoreLedgerEntry.
var ErrLedgerEntryIsNotConstructed = errors.New(
	"LedgerEntry must be created via NewLedgerEntry constructor")

// LedgerEntry is an append-only financial record. Entries are never updated or
// deleted; the (courier, delivery, entry type) triple is unique at the storage
// layer, which is the final defense against double-charging a courier for the
// same delivery.
type LedgerEntry struct {
	id           kernel.UUID
	courierID    kernel.UUID
	deliveryID   *kernel.UUID
	entryType    EntryType
	amount       decimal.Decimal
	balanceAfter decimal.Decimal
	description  string
	createdAt    time.Time

	isConstructed bool
}

// NewLedgerEntry creates a ledger entry. deliveryID is nil for manual adjustments.
func NewLedgerEntry(
	id kernel.UUID,
	courierID kernel.UUID,
	deliveryID *kernel.UUID,
	entryType EntryType,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
	description string,
	now time.Time,
) (*LedgerEntry, error) {
	if err := errors.Join(
		id.Validate(),
		courierID.Validate(),
		entryType.Validate(),
	); err != nil {
		return nil, err
	}
	if deliveryID != nil {
		if err := deliveryID.Validate(); err != nil {
			return nil, err
		}
	}

	return &LedgerEntry{
		id:            id,
		courierID:     courierID,
		deliveryID:    deliveryID,
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		description:   description,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreLedgerEntry reconstructs an entry from persistence.
func RestoreLedgerEntry(
	id kernel.UUID,
	courierID kernel.UUID,
	deliveryID *kernel.UUID,
	entryType EntryType,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
	description string,
	createdAt time.Time,
) (*LedgerEntry, error) {
	return NewLedgerEntry(id, courierID, deliveryID, entryType, amount, balanceAfter, description, createdAt)
}

// Validate ensures the entry was properly constructed.
func (e *LedgerEntry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrLedgerEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry identifier.
func (e *LedgerEntry) ID() kernel.UUID { return e.id }

// CourierID returns the courier whose wallet the entry belongs to.
func (e *LedgerEntry) CourierID() kernel.UUID { return e.courierID }

// DeliveryID returns the related delivery, or nil for manual adjustments.
func (e *LedgerEntry) DeliveryID() *kernel.UUID { return e.deliveryID }

// Type returns the entry classification.
func (e *LedgerEntry) Type() EntryType { return e.entryType }

// Amount returns the signed amount applied to the balance.
func (e *LedgerEntry) Amount() decimal.Decimal { return e.amount }

// BalanceAfter returns the wallet balance snapshot after the entry applied.
func (e *LedgerEntry) BalanceAfter() decimal.Decimal { return e.balanceAfter }

// Description returns the free-text description.
func (e *LedgerEntry) Description() string { return e.description }

// CreatedAt returns when the entry was recorded.
func (e *LedgerEntry) CreatedAt() time.Time { return e.createdAt }
