package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateDeliveryCommandIsNotConstructed = errors.New(
		"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
	)
	ErrPickupStreetIsRequired  = errors.New("pickup street is required")
	ErrDropoffStreetIsRequired = errors.New("dropoff street is required")
	ErrFeeMustNotBeNegative    = errors.New("fee must not be negative")
)

// Endpoint carries one side of a delivery: where to go and who to ask for.
// Only the street is mandatory.
type Endpoint struct {
	Street  string
	Contact string
	Phone   string
}

// CreateDeliveryCommand represents a request to post a new delivery.
// Station-affiliated deliveries (StationID set) will require dispatcher
// approval before any courier can capture them.
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	senderID   kernel.UUID
	stationID  *kernel.UUID
	pickup     Endpoint
	dropoff    Endpoint
	fee        decimal.Decimal

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to post a new delivery.
// Validates identifiers, requires both streets, and rejects negative fees.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	senderID kernel.UUID,
	stationID *kernel.UUID,
	pickup Endpoint,
	dropoff Endpoint,
	fee decimal.Decimal,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setSenderID(senderID),
		cmd.setStationID(stationID),
		cmd.setPickup(pickup),
		cmd.setDropoff(dropoff),
		cmd.setFee(fee),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the identifier assigned to the new delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// SenderID returns the posting sender's identifier.
func (c CreateDeliveryCommand) SenderID() kernel.UUID { return c.senderID }

// StationID returns the mediating station's identifier, or nil for a direct delivery.
func (c CreateDeliveryCommand) StationID() *kernel.UUID { return c.stationID }

// Pickup returns the pickup endpoint.
func (c CreateDeliveryCommand) Pickup() Endpoint { return c.pickup }

// Dropoff returns the dropoff endpoint.
func (c CreateDeliveryCommand) Dropoff() Endpoint { return c.dropoff }

// Fee returns the courier fee.
func (c CreateDeliveryCommand) Fee() decimal.Decimal { return c.fee }

func (c *CreateDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *CreateDeliveryCommand) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return err
	}

	c.senderID = senderID
	return nil
}

func (c *CreateDeliveryCommand) setStationID(stationID *kernel.UUID) error {
	if stationID != nil {
		if err := stationID.Validate(); err != nil {
			return err
		}
	}

	c.stationID = stationID
	return nil
}

func (c *CreateDeliveryCommand) setPickup(pickup Endpoint) error {
	if pickup.Street == "" {
		return ErrPickupStreetIsRequired
	}

	c.pickup = pickup
	return nil
}

func (c *CreateDeliveryCommand) setDropoff(dropoff Endpoint) error {
	if dropoff.Street == "" {
		return ErrDropoffStreetIsRequired
	}

	c.dropoff = dropoff
	return nil
}

func (c *CreateDeliveryCommand) setFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return ErrFeeMustNotBeNegative
	}

	c.fee = fee
	return nil
}
