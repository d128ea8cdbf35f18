package commands

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
)

// CancelDeliveryCommandHandler handles cancellations. Cancelling anything but
// an Open delivery is a deliberate no-op: the delivery is returned unchanged
// and the operation still succeeds, so callers that race a capture do not see
// spurious errors.
type CancelDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewCancelDeliveryCommandHandler creates a handler for cancellations.
func NewCancelDeliveryCommandHandler(uowFactory DeliveryUoWFactory) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation. Only the posting sender may cancel.
func (h CancelDeliveryCommandHandler) Handle(
	ctx context.Context, cmd CancelDeliveryCommand,
) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return resolve(err)
	}

	if !d.SenderID().IsEqual(cmd.SenderID()) {
		return resolve(delivery.ErrNotSender)
	}

	if d.Cancel() {
		if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
			return Result{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}
