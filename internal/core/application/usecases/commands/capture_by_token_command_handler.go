package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/services"
)

// CaptureByTokenCommandHandler handles capture attempts arriving through
// outward links. Station-mediated deliveries never capture directly: for them
// the handler defers to the approval workflow and places a request instead, so
// the caller should inspect the resulting status to see which path was taken.
type CaptureByTokenCommandHandler struct {
	uowFactory CaptureUoWFactory
	planner    services.NotificationPlanner
}

// NewCaptureByTokenCommandHandler creates a handler for link-based captures.
func NewCaptureByTokenCommandHandler(
	uowFactory CaptureUoWFactory,
	planner services.NotificationPlanner,
) CaptureByTokenCommandHandler {
	return CaptureByTokenCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle resolves the delivery by token under an exclusive row lock, then
// either captures it directly or, for station deliveries, places an approval
// request on the courier's behalf.
func (h CaptureByTokenCommandHandler) Handle(
	ctx context.Context, cmd CaptureByTokenCommand,
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

	d, err := uow.DeliveryRepository().GetByTokenForUpdate(ctx, cmd.Token())
	if err != nil {
		return resolve(err)
	}

	now := time.Now().UTC()
	if d.IsStationAffiliated() {
		err = requestApproval(ctx, uow, h.planner, d, cmd.CourierID(), now)
	} else {
		err = captureAndDebit(ctx, uow, h.planner, d, cmd.CourierID(), now)
	}
	if err != nil {
		return resolve(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}
