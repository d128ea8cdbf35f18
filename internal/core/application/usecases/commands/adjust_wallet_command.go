package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrAdjustWalletCommandIsNotConstructed = errors.New(
		"AdjustWalletCommand must be created via NewAdjustWalletCommand constructor",
	)
	ErrAmountMustNotBeZero   = errors.New("adjustment amount must not be zero")
	ErrDescriptionIsRequired = errors.New("adjustment description is required")
)

// AdjustWalletCommand represents an operator-initiated balance change on a
// courier's wallet: settling a debt out of band, correcting an error, or
// granting a bonus. Positive amounts credit, negative amounts debit.
type AdjustWalletCommand struct { //nolint:recvcheck //using for validation
	courierID   kernel.UUID
	amount      decimal.Decimal
	description string

	guard guard.ConstructorGuard
}

// NewAdjustWalletCommand creates a command for a manual wallet adjustment.
// The amount must be non-zero and the description must explain the adjustment;
// it is recorded verbatim in the ledger.
func NewAdjustWalletCommand(
	courierID kernel.UUID,
	amount decimal.Decimal,
	description string,
) (AdjustWalletCommand, error) {
	cmd := AdjustWalletCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setAmount(amount),
		cmd.setDescription(description),
	); err != nil {
		return AdjustWalletCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdjustWalletCommand) Validate() error {
	return c.guard.Validate(ErrAdjustWalletCommandIsNotConstructed)
}

// CourierID returns the wallet's owning courier.
func (c AdjustWalletCommand) CourierID() kernel.UUID { return c.courierID }

// Amount returns the signed adjustment amount.
func (c AdjustWalletCommand) Amount() decimal.Decimal { return c.amount }

// Description returns the operator's explanation for the ledger.
func (c AdjustWalletCommand) Description() string { return c.description }

func (c *AdjustWalletCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *AdjustWalletCommand) setAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return ErrAmountMustNotBeZero
	}

	c.amount = amount
	return nil
}

func (c *AdjustWalletCommand) setDescription(description string) error {
	if description == "" {
		return ErrDescriptionIsRequired
	}

	c.description = description
	return nil
}
