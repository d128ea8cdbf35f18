package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRequestDeliveryCommandIsNotConstructed = errors.New(
	"RequestDeliveryCommand must be created via NewRequestDeliveryCommand constructor",
)

// RequestDeliveryCommand represents a courier asking to take a
// station-mediated delivery, subject to a dispatcher's decision.
type RequestDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewRequestDeliveryCommand creates a command for an approval request.
func NewRequestDeliveryCommand(deliveryID, courierID kernel.UUID) (RequestDeliveryCommand, error) {
	cmd := RequestDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
	); err != nil {
		return RequestDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRequestDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the requested delivery.
func (c RequestDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the requesting courier.
func (c RequestDeliveryCommand) CourierID() kernel.UUID { return c.courierID }

func (c *RequestDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *RequestDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
