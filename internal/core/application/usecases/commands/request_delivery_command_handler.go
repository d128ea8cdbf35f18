package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// ErrNotStationDelivery is the typed business failure for an approval request
// on a delivery that has no mediating station.
var ErrNotStationDelivery = delivery.ErrNotStationDelivery

// RequestDeliveryCommandHandler handles approval requests for station-mediated
// deliveries. The row lock on the delivery serializes concurrent requests:
// exactly one courier transitions it to PendingApproval, the second observes
// the committed status and receives an already-pending failure.
type RequestDeliveryCommandHandler struct {
	uowFactory CaptureUoWFactory
	planner    services.NotificationPlanner
}

// NewRequestDeliveryCommandHandler creates a handler for approval requests.
func NewRequestDeliveryCommandHandler(
	uowFactory CaptureUoWFactory,
	planner services.NotificationPlanner,
) RequestDeliveryCommandHandler {
	return RequestDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the request command. The courier must be approved and not
// blacklisted by the delivery's station.
func (h RequestDeliveryCommandHandler) Handle(
	ctx context.Context, cmd RequestDeliveryCommand,
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

	if err = requestApproval(ctx, uow, h.planner, d, cmd.CourierID(), time.Now().UTC()); err != nil {
		return resolve(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}

// requestApproval performs the locked request sequence inside the caller's
// transaction: courier eligibility checks, the Open to PendingApproval
// transition, and the alert to the station's private channel when one is
// configured.
func requestApproval(
	ctx context.Context,
	uow CaptureUoW,
	planner services.NotificationPlanner,
	d *delivery.Delivery,
	courierID kernel.UUID,
	now time.Time,
) error {
	if !d.IsStationAffiliated() {
		return ErrNotStationDelivery
	}

	c, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		return err
	}
	if err = c.EnsureApproved(); err != nil {
		return err
	}

	st, err := uow.StationRepository().Get(ctx, *d.StationID())
	if err != nil {
		return err
	}
	if err = st.EnsureCourierAllowed(courierID); err != nil {
		return err
	}

	if err = d.RequestApproval(courierID, now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if !st.HasPrivateChannel() {
		return nil
	}

	notice, err := planner.PlanRequestNotice(d, st.ChannelChatID(), now)
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, notice)
}
