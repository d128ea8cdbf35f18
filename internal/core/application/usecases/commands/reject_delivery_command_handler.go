package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// RejectDeliveryCommandHandler handles rejection decisions. Rejection returns
// the delivery to Open and records the decision metadata; it has no financial
// side effects.
type RejectDeliveryCommandHandler struct {
	uowFactory CaptureUoWFactory
	planner    services.NotificationPlanner
}

// NewRejectDeliveryCommandHandler creates a handler for rejection decisions.
func NewRejectDeliveryCommandHandler(
	uowFactory CaptureUoWFactory,
	planner services.NotificationPlanner,
) RejectDeliveryCommandHandler {
	return RejectDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the rejection. The dispatcher must be authorized for the
// delivery's station and the delivery must be pending approval.
func (h RejectDeliveryCommandHandler) Handle(
	ctx context.Context, cmd RejectDeliveryCommand,
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

	if !d.IsStationAffiliated() {
		return resolve(delivery.ErrNotStationDelivery)
	}

	st, err := uow.StationRepository().Get(ctx, *d.StationID())
	if err != nil {
		return resolve(err)
	}
	if err = st.EnsureDispatcherAuthorized(cmd.DispatcherID()); err != nil {
		return resolve(err)
	}

	// Reject clears the requesting courier, so take the notification target first.
	requesterPtr := d.RequestingCourier()

	now := time.Now().UTC()
	if err = d.Reject(cmd.DispatcherID(), now); err != nil {
		return resolve(err)
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return Result{}, err
	}

	err = enqueueDecisionNotices(ctx, uow, h.planner, d, *requesterPtr, st.ChannelChatID(), false, now)
	if err != nil {
		return resolve(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}

// enqueueDecisionNotices queues the courier-facing decision notice and, when
// the station has a private channel configured, the closed-card summary.
// Participates in the caller's transaction; shared by the approve and reject
// handlers.
func enqueueDecisionNotices(
	ctx context.Context,
	uow CaptureUoW,
	planner services.NotificationPlanner,
	d *delivery.Delivery,
	courierID kernel.UUID,
	channelChatID string,
	approved bool,
	now time.Time,
) error {
	c, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		return err
	}

	notice, err := planner.PlanDecisionNotice(d, c.ChatID(), approved, now)
	if err != nil {
		return err
	}
	if err = uow.OutboxRepository().Add(ctx, notice); err != nil {
		return err
	}

	if channelChatID == "" {
		return nil
	}

	card, err := planner.PlanClosedCard(d, channelChatID, now)
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, card)
}
