package wallet

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrWalletIsNotConstructed is returned when a CourierWallet was not created
	// through NewCourierWallet or RestoreCourierWallet.
	ErrWalletIsNotConstructed = errors.New(
		"CourierWallet must be created via NewCourierWallet constructor")

	// ErrCreditLimitIsPositive is returned when a wallet is created with a credit
	// limit above zero. The limit is a negative floor: it is the minimum balance
	// the courier may run to, not a spending ceiling.
	ErrCreditLimitIsPositive = errs.NewValueIsInvalidError("credit limit must not be positive")

	// ErrInsufficientCredit is the typed business failure raised when a debit
	// would push the balance strictly below the credit limit.
	ErrInsufficientCredit = errs.NewDomainRuleError("insufficient credit to capture delivery")
)

// CourierWallet holds one courier's balance and credit limit.
//
// The credit limit is a negative decimal: a courier may run a bounded deficit,
// and a debit is allowed exactly when the resulting balance is greater than or
// equal to the limit. The comparison is strict on the failure side — a future
// balance equal to the limit always succeeds.
//
// The wallet is mutated only inside a locked transaction; callers must acquire
// an exclusive row lock before loading it, always after the delivery row lock.
type CourierWallet struct {
	courierID   kernel.UUID
	balance     decimal.Decimal
	creditLimit decimal.Decimal

	isConstructed bool
}

// NewCourierWallet creates a wallet with a zero balance.
func NewCourierWallet(courierID kernel.UUID, creditLimit decimal.Decimal) (*CourierWallet, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}
	if creditLimit.IsPositive() {
		return nil, ErrCreditLimitIsPositive
	}

	return &CourierWallet{
		courierID:     courierID,
		balance:       decimal.Zero,
		creditLimit:   creditLimit,
		isConstructed: true,
	}, nil
}

// RestoreCourierWallet reconstructs a wallet from persistence.
func RestoreCourierWallet(
	courierID kernel.UUID,
	balance decimal.Decimal,
	creditLimit decimal.Decimal,
) (*CourierWallet, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}
	if creditLimit.IsPositive() {
		return nil, ErrCreditLimitIsPositive
	}

	return &CourierWallet{
		courierID:     courierID,
		balance:       balance,
		creditLimit:   creditLimit,
		isConstructed: true,
	}, nil
}

// Validate ensures the wallet was properly constructed.
func (w *CourierWallet) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWalletIsNotConstructed
	}
	return nil
}

// CourierID returns the owning courier's identifier.
func (w *CourierWallet) CourierID() kernel.UUID { return w.courierID }

// Balance returns the current signed balance.
func (w *CourierWallet) Balance() decimal.Decimal { return w.balance }

// CreditLimit returns the negative floor the balance may not go below.
func (w *CourierWallet) CreditLimit() decimal.Decimal { return w.creditLimit }

// CanCapture checks the credit-limit precondition for a fee debit without
// mutating the wallet. Blocks exactly when balance - fee < creditLimit.
func (w *CourierWallet) CanCapture(fee decimal.Decimal) error {
	if w.balance.Sub(fee).LessThan(w.creditLimit) {
		return ErrInsufficientCredit
	}
	return nil
}

// DebitForCapture deducts the delivery fee and returns the fee-debit ledger
// entry recording it. The caller persists both wallet and entry in one
// transaction; the ledger uniqueness constraint then rejects a duplicate debit
// even if two concurrent transactions both passed the balance check.
func (w *CourierWallet) DebitForCapture(
	deliveryID kernel.UUID,
	fee decimal.Decimal,
	now time.Time,
) (*LedgerEntry, error) {
	if err := w.CanCapture(fee); err != nil {
		return nil, err
	}

	w.balance = w.balance.Sub(fee)
	return NewLedgerEntry(
		kernel.NewUUID(),
		w.courierID,
		&deliveryID,
		EntryTypeFeeDebit,
		fee.Neg(),
		w.balance,
		fmt.Sprintf("fee debit for delivery %s", deliveryID),
		now,
	)
}

// RefundForRelease returns the delivery fee after a release and produces the
// refund ledger entry. A refund has no credit-limit precondition.
func (w *CourierWallet) RefundForRelease(
	deliveryID kernel.UUID,
	fee decimal.Decimal,
	now time.Time,
) (*LedgerEntry, error) {
	w.balance = w.balance.Add(fee)
	return NewLedgerEntry(
		kernel.NewUUID(),
		w.courierID,
		&deliveryID,
		EntryTypeRefund,
		fee,
		w.balance,
		fmt.Sprintf("refund for released delivery %s", deliveryID),
		now,
	)
}

// CreditForDelivery credits the courier when a delivery completes and produces
// the completed-credit ledger entry.
func (w *CourierWallet) CreditForDelivery(
	deliveryID kernel.UUID,
	amount decimal.Decimal,
	now time.Time,
) (*LedgerEntry, error) {
	w.balance = w.balance.Add(amount)
	return NewLedgerEntry(
		kernel.NewUUID(),
		w.courierID,
		&deliveryID,
		EntryTypeCompletedCredit,
		amount,
		w.balance,
		fmt.Sprintf("credit for completed delivery %s", deliveryID),
		now,
	)
}

// AdjustManually applies an operator-initiated balance change. A positive
// amount records a manual credit, a negative one a manual debit. Manual
// adjustments bypass the credit-limit check: the operator is trusted to push a
// balance below the floor when settling debts out of band.
func (w *CourierWallet) AdjustManually(
	amount decimal.Decimal,
	description string,
	now time.Time,
) (*LedgerEntry, error) {
	if amount.IsZero() {
		return nil, errs.NewValueIsInvalidError("adjustment amount must not be zero")
	}

	entryType := EntryTypeManualCredit
	if amount.IsNegative() {
		entryType = EntryTypeManualDebit
	}

	w.balance = w.balance.Add(amount)
	return NewLedgerEntry(
		kernel.NewUUID(),
		w.courierID,
		nil,
		entryType,
		amount,
		w.balance,
		description,
		now,
	)
}
