package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCaptureByTokenCommandIsNotConstructed = errors.New(
	"CaptureByTokenCommand must be created via NewCaptureByTokenCommand constructor",
)

// CaptureByTokenCommand represents a capture attempt entered through an
// outward link. The delivery is resolved by its public token, never by raw
// identifier, so recipients of a broadcast cannot enumerate deliveries.
type CaptureByTokenCommand struct { //nolint:recvcheck //using for validation
	token     kernel.Token
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCaptureByTokenCommand creates a command for a link-based capture attempt.
func NewCaptureByTokenCommand(token kernel.Token, courierID kernel.UUID) (CaptureByTokenCommand, error) {
	cmd := CaptureByTokenCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setToken(token),
		cmd.setCourierID(courierID),
	); err != nil {
		return CaptureByTokenCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CaptureByTokenCommand) Validate() error {
	return c.guard.Validate(ErrCaptureByTokenCommandIsNotConstructed)
}

// Token returns the delivery's public token.
func (c CaptureByTokenCommand) Token() kernel.Token { return c.token }

// CourierID returns the capturing courier.
func (c CaptureByTokenCommand) CourierID() kernel.UUID { return c.courierID }

func (c *CaptureByTokenCommand) setToken(token kernel.Token) error {
	if err := token.Validate(); err != nil {
		return err
	}

	c.token = token
	return nil
}

func (c *CaptureByTokenCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
