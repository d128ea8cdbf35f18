package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReleaseDeliveryCommandIsNotConstructed = errors.New(
	"ReleaseDeliveryCommand must be created via NewReleaseDeliveryCommand constructor",
)

// ReleaseDeliveryCommand represents the owning courier giving a captured
// delivery back to the open pool, refunding the fee.
type ReleaseDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewReleaseDeliveryCommand creates a command for a release.
func NewReleaseDeliveryCommand(deliveryID, courierID kernel.UUID) (ReleaseDeliveryCommand, error) {
	cmd := ReleaseDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
	); err != nil {
		return ReleaseDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrReleaseDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to release.
func (c ReleaseDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the releasing courier.
func (c ReleaseDeliveryCommand) CourierID() kernel.UUID { return c.courierID }

func (c *ReleaseDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *ReleaseDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
