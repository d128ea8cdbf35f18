package commands

import (
	"context"
)

// StartDeliveryCommandHandler handles the Captured to InProgress transition.
// A pure status change with no financial or notification side effects.
type StartDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewStartDeliveryCommandHandler creates a handler for starting runs.
func NewStartDeliveryCommandHandler(uowFactory DeliveryUoWFactory) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start command. Only the owning courier may start a
// captured delivery.
func (h StartDeliveryCommandHandler) Handle(
	ctx context.Context, cmd StartDeliveryCommand,
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

	if err = d.Start(cmd.CourierID()); err != nil {
		return resolve(err)
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}
