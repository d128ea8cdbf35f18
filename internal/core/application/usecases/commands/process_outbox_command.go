package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var (
	ErrProcessOutboxCommandIsNotConstructed = errors.New(
		"ProcessOutboxCommand must be created via NewProcessOutboxCommand constructor",
	)
	ErrBatchLimitIsInvalid = errors.New("batch limit must be greater than 0")
)

// ProcessOutboxCommand represents one polling pass of the outbox worker.
type ProcessOutboxCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewProcessOutboxCommand creates a command for one worker pass claiming at
// most limit due messages.
func NewProcessOutboxCommand(limit int) (ProcessOutboxCommand, error) {
	cmd := ProcessOutboxCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setLimit(limit); err != nil {
		return ProcessOutboxCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessOutboxCommand) Validate() error {
	return c.guard.Validate(ErrProcessOutboxCommandIsNotConstructed)
}

// Limit returns the maximum batch size for this pass.
func (c ProcessOutboxCommand) Limit() int { return c.limit }

func (c *ProcessOutboxCommand) setLimit(limit int) error {
	if limit <= 0 {
		return ErrBatchLimitIsInvalid
	}

	c.limit = limit
	return nil
}
