package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/pkg/guard"
)

var ErrResolveInboundCommandIsNotConstructed = errors.New(
	"ResolveInboundCommand must be created via NewResolveInboundCommand constructor",
)

// ResolveInboundCommand records the outcome of processing an inbound webhook
// message that earlier passed the dedupe gate.
type ResolveInboundCommand struct { //nolint:recvcheck //using for validation
	platform  outbox.Platform
	messageID string
	completed bool

	guard guard.ConstructorGuard
}

// NewResolveInboundCommand creates a command resolving one inbound message.
// completed=true permanently blocks reprocessing; false permits a retry.
func NewResolveInboundCommand(
	platform outbox.Platform, messageID string, completed bool,
) (ResolveInboundCommand, error) {
	cmd := ResolveInboundCommand{
		completed: completed,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPlatform(platform),
		cmd.setMessageID(messageID),
	); err != nil {
		return ResolveInboundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveInboundCommand) Validate() error {
	return c.guard.Validate(ErrResolveInboundCommandIsNotConstructed)
}

// Platform returns the messaging channel the message arrived on.
func (c ResolveInboundCommand) Platform() outbox.Platform { return c.platform }

// MessageID returns the upstream message identifier.
func (c ResolveInboundCommand) MessageID() string { return c.messageID }

// Completed reports whether processing succeeded.
func (c ResolveInboundCommand) Completed() bool { return c.completed }

func (c *ResolveInboundCommand) setPlatform(platform outbox.Platform) error {
	if err := platform.Validate(); err != nil {
		return err
	}

	c.platform = platform
	return nil
}

func (c *ResolveInboundCommand) setMessageID(messageID string) error {
	if messageID == "" {
		return ErrMessageIDIsRequired
	}

	c.messageID = messageID
	return nil
}
