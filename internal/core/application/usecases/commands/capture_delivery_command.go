package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCaptureDeliveryCommandIsNotConstructed = errors.New(
	"CaptureDeliveryCommand must be created via NewCaptureDeliveryCommand constructor",
)

// CaptureDeliveryCommand represents a courier's attempt to take an open
// delivery, identified by its raw identifier. Station-affiliated deliveries
// cannot be captured this way; they must go through the approval workflow.
type CaptureDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewCaptureDeliveryCommand creates a command for a direct capture attempt.
func NewCaptureDeliveryCommand(deliveryID, courierID kernel.UUID) (CaptureDeliveryCommand, error) {
	cmd := CaptureDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
	); err != nil {
		return CaptureDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CaptureDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCaptureDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to capture.
func (c CaptureDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the capturing courier.
func (c CaptureDeliveryCommand) CourierID() kernel.UUID { return c.courierID }

func (c *CaptureDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *CaptureDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
