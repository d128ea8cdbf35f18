package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/services"
)

// ReleaseDeliveryCommandHandler handles releases. The status transition back
// to Open, the refund ledger entry, and the sender notification commit as one
// transaction under the same lock discipline as capture.
//
// Capture followed immediately by release restores the wallet balance exactly
// and leaves two ledger entries for the (courier, delivery) pair: the fee
// debit and the refund.
type ReleaseDeliveryCommandHandler struct {
	uowFactory CaptureUoWFactory
	planner    services.NotificationPlanner
}

// NewReleaseDeliveryCommandHandler creates a handler for release operations.
func NewReleaseDeliveryCommandHandler(
	uowFactory CaptureUoWFactory,
	planner services.NotificationPlanner,
) ReleaseDeliveryCommandHandler {
	return ReleaseDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the release. Only the owning courier may release, and only
// from the Captured status.
func (h ReleaseDeliveryCommandHandler) Handle(
	ctx context.Context, cmd ReleaseDeliveryCommand,
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

	w, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return resolve(err)
	}

	now := time.Now().UTC()
	if err = d.Release(cmd.CourierID()); err != nil {
		return resolve(err)
	}

	entry, err := w.RefundForRelease(d.ID(), d.Fee(), now)
	if err != nil {
		return Result{}, err
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

	notice, err := h.planner.PlanReleaseNotice(d, now)
	if err != nil {
		return Result{}, err
	}
	if err = uow.OutboxRepository().Add(ctx, notice); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}
