package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRejectDeliveryCommandIsNotConstructed = errors.New(
	"RejectDeliveryCommand must be created via NewRejectDeliveryCommand constructor",
)

// RejectDeliveryCommand represents a dispatcher rejecting a courier's pending
// request, returning the delivery to the open pool.
type RejectDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID   kernel.UUID
	dispatcherID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectDeliveryCommand creates a command for a rejection decision.
func NewRejectDeliveryCommand(deliveryID, dispatcherID kernel.UUID) (RejectDeliveryCommand, error) {
	cmd := RejectDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setDispatcherID(dispatcherID),
	); err != nil {
		return RejectDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRejectDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery under decision.
func (c RejectDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// DispatcherID returns the deciding dispatcher.
func (c RejectDeliveryCommand) DispatcherID() kernel.UUID { return c.dispatcherID }

func (c *RejectDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *RejectDeliveryCommand) setDispatcherID(dispatcherID kernel.UUID) error {
	if err := dispatcherID.Validate(); err != nil {
		return err
	}

	c.dispatcherID = dispatcherID
	return nil
}
