package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

// CancelDeliveryCommand represents a sender withdrawing their own delivery.
type CancelDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	senderID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelDeliveryCommand creates a command for a cancellation.
func NewCancelDeliveryCommand(deliveryID, senderID kernel.UUID) (CancelDeliveryCommand, error) {
	cmd := CancelDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setSenderID(senderID),
	); err != nil {
		return CancelDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to cancel.
func (c CancelDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// SenderID returns the withdrawing sender.
func (c CancelDeliveryCommand) SenderID() kernel.UUID { return c.senderID }

func (c *CancelDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *CancelDeliveryCommand) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return err
	}

	c.senderID = senderID
	return nil
}
