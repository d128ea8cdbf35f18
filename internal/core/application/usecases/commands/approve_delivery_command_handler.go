package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/services"
)

// ApproveDeliveryCommandHandler handles approval decisions. Approval is a
// capture: the status transition, the requesting courier's fee debit, the
// ledger insert, the decision metadata, and both notifications commit as a
// single atomic unit. If the courier's credit no longer covers the fee at
// decision time, the approval fails and the request stays pending.
type ApproveDeliveryCommandHandler struct {
	uowFactory CaptureUoWFactory
	planner    services.NotificationPlanner
}

// NewApproveDeliveryCommandHandler creates a handler for approval decisions.
func NewApproveDeliveryCommandHandler(
	uowFactory CaptureUoWFactory,
	planner services.NotificationPlanner,
) ApproveDeliveryCommandHandler {
	return ApproveDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the approval. The dispatcher must be authorized for the
// delivery's station and the delivery must be pending approval.
func (h ApproveDeliveryCommandHandler) Handle(
	ctx context.Context, cmd ApproveDeliveryCommand,
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

	now := time.Now().UTC()
	requester, err := d.Approve(cmd.DispatcherID(), now)
	if err != nil {
		return resolve(err)
	}

	w, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, requester)
	if err != nil {
		return resolve(err)
	}
	entry, err := w.DebitForCapture(d.ID(), d.Fee(), now)
	if err != nil {
		return resolve(err)
	}

	if err = uow.WalletRepository().Update(ctx, w); err != nil {
		return Result{}, err
	}
	if err = uow.WalletRepository().AddLedgerEntry(ctx, entry); err != nil {
		return Result{}, err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return Result{}, err
	}

	err = enqueueDecisionNotices(ctx, uow, h.planner, d, requester, st.ChannelChatID(), true, now)
	if err != nil {
		return resolve(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}
