package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/pkg/guard"
)

var (
	ErrDedupeInboundCommandIsNotConstructed = errors.New(
		"DedupeInboundCommand must be created via NewDedupeInboundCommand constructor",
	)
	ErrMessageIDIsRequired = errors.New("message id is required")
)

// DedupeInboundCommand represents the idempotency gate for an inbound webhook
// message, keyed by the identifier the upstream channel supplies.
type DedupeInboundCommand struct { //nolint:recvcheck //using for validation
	platform  outbox.Platform
	messageID string

	guard guard.ConstructorGuard
}

// NewDedupeInboundCommand creates a command gating one inbound message.
func NewDedupeInboundCommand(
	platform outbox.Platform, messageID string,
) (DedupeInboundCommand, error) {
	cmd := DedupeInboundCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPlatform(platform),
		cmd.setMessageID(messageID),
	); err != nil {
		return DedupeInboundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DedupeInboundCommand) Validate() error {
	return c.guard.Validate(ErrDedupeInboundCommandIsNotConstructed)
}

// Platform returns the messaging channel the message arrived on.
func (c DedupeInboundCommand) Platform() outbox.Platform { return c.platform }

// MessageID returns the upstream message identifier.
func (c DedupeInboundCommand) MessageID() string { return c.messageID }

func (c *DedupeInboundCommand) setPlatform(platform outbox.Platform) error {
	if err := platform.Validate(); err != nil {
		return err
	}

	c.platform = platform
	return nil
}

func (c *DedupeInboundCommand) setMessageID(messageID string) error {
	if messageID == "" {
		return ErrMessageIDIsRequired
	}

	c.messageID = messageID
	return nil
}
