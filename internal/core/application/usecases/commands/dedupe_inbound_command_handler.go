package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/webhook"
	"dispatch/internal/pkg/errs"
)

// DedupeInboundCommandHandler guards inbound webhook processing, the
// mirror image of the outbox's outbound guard. A message id recorded as
// completed short-circuits reprocessing; a processing or failed record — a
// crashed worker or an earlier error — is reclaimed and the message processed
// again.
type DedupeInboundCommandHandler struct {
	uowFactory WebhookUoWFactory
}

// NewDedupeInboundCommandHandler creates a handler for the inbound idempotency gate.
func NewDedupeInboundCommandHandler(uowFactory WebhookUoWFactory) DedupeInboundCommandHandler {
	return DedupeInboundCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the inbound message and reports whether the caller should
// process it. false means a completed record already exists and the message
// is a duplicate.
//
// First sight of a message id inserts a processing record; the primary key on
// (platform, message id) makes concurrent duplicate webhooks fail the insert
// and fall back to the recorded status.
func (h DedupeInboundCommandHandler) Handle(
	ctx context.Context, cmd DedupeInboundCommand,
) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WebhookEventRepository()
	now := time.Now().UTC()

	event, err := repo.Get(ctx, cmd.Platform(), cmd.MessageID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		event, err = webhook.NewEvent(cmd.MessageID(), cmd.Platform(), now)
		if err != nil {
			return false, err
		}
		if err = repo.Add(ctx, event); err != nil {
			return false, err
		}
		return true, uow.Commit(ctx)
	}
	if err != nil {
		return false, err
	}

	if event.BlocksReprocessing() {
		return false, uow.Commit(ctx)
	}

	event.Reclaim()
	if err = repo.Update(ctx, event); err != nil {
		return false, err
	}

	return true, uow.Commit(ctx)
}
