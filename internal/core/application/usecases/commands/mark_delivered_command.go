package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand represents completing a delivery.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a command for completing a delivery.
func NewMarkDeliveredCommand(deliveryID kernel.UUID) (MarkDeliveredCommand, error) {
	cmd := MarkDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDeliveryID(deliveryID); err != nil {
		return MarkDeliveredCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// DeliveryID returns the delivery to complete.
func (c MarkDeliveredCommand) DeliveryID() kernel.UUID { return c.deliveryID }

func (c *MarkDeliveredCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}
