package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrApproveDeliveryCommandIsNotConstructed = errors.New(
	"ApproveDeliveryCommand must be created via NewApproveDeliveryCommand constructor",
)

// ApproveDeliveryCommand represents a dispatcher approving a courier's pending
// request, which captures the delivery for that courier.
type ApproveDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID   kernel.UUID
	dispatcherID kernel.UUID

	guard guard.ConstructorGuard
}

// NewApproveDeliveryCommand creates a command for an approval decision.
func NewApproveDeliveryCommand(deliveryID, dispatcherID kernel.UUID) (ApproveDeliveryCommand, error) {
	cmd := ApproveDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setDispatcherID(dispatcherID),
	); err != nil {
		return ApproveDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApproveDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrApproveDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery under decision.
func (c ApproveDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// DispatcherID returns the deciding dispatcher.
func (c ApproveDeliveryCommand) DispatcherID() kernel.UUID { return c.dispatcherID }

func (c *ApproveDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *ApproveDeliveryCommand) setDispatcherID(dispatcherID kernel.UUID) error {
	if err := dispatcherID.Validate(); err != nil {
		return err
	}

	c.dispatcherID = dispatcherID
	return nil
}
