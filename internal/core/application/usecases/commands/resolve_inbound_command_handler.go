package commands

import (
	"context"
)

// ResolveInboundCommandHandler closes the loop on the inbound idempotency
// gate: after the caller processes a deduped message, the record becomes
// completed (blocking future duplicates) or failed (permitting a retry).
type ResolveInboundCommandHandler struct {
	uowFactory WebhookUoWFactory
}

// NewResolveInboundCommandHandler creates a handler for resolving inbound records.
func NewResolveInboundCommandHandler(uowFactory WebhookUoWFactory) ResolveInboundCommandHandler {
	return ResolveInboundCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the processing outcome for the message identifier.
func (h ResolveInboundCommandHandler) Handle(ctx context.Context, cmd ResolveInboundCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WebhookEventRepository()
	event, err := repo.Get(ctx, cmd.Platform(), cmd.MessageID())
	if err != nil {
		return err
	}

	if cmd.Completed() {
		event.MarkCompleted()
	} else {
		event.MarkFailed()
	}

	if err = repo.Update(ctx, event); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
