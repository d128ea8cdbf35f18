package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand represents the owning courier beginning the delivery run.
type StartDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartDeliveryCommand creates a command for starting a run.
func NewStartDeliveryCommand(deliveryID, courierID kernel.UUID) (StartDeliveryCommand, error) {
	cmd := StartDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
	); err != nil {
		return StartDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to start.
func (c StartDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the courier starting the run.
func (c StartDeliveryCommand) CourierID() kernel.UUID { return c.courierID }

func (c *StartDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *StartDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
