package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// CaptureDeliveryCommandHandler handles direct capture attempts: the status
// transition, the wallet debit, the ledger insert, and the sender notification
// commit as one transaction under exclusive row locks.
//
// Two concurrent captures of the same delivery serialize on the delivery row:
// the loser reloads the committed Captured status and receives an
// already-taken failure, with its wallet untouched.
type CaptureDeliveryCommandHandler struct {
	uowFactory CaptureUoWFactory
	planner    services.NotificationPlanner
}

// NewCaptureDeliveryCommandHandler creates a handler for direct capture operations.
func NewCaptureDeliveryCommandHandler(
	uowFactory CaptureUoWFactory,
	planner services.NotificationPlanner,
) CaptureDeliveryCommandHandler {
	return CaptureDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the capture command. Business failures (already taken,
// insufficient credit, approval required, not found) come back in the Result;
// infrastructure failures are returned as the error.
func (h CaptureDeliveryCommandHandler) Handle(
	ctx context.Context, cmd CaptureDeliveryCommand,
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

	if d.IsStationAffiliated() && d.Status() == delivery.StatusOpen {
		return resolve(delivery.ErrApprovalRequired)
	}

	now := time.Now().UTC()
	if err = captureAndDebit(ctx, uow, h.planner, d, cmd.CourierID(), now); err != nil {
		return resolve(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return succeeded(d), nil
}

// captureAndDebit performs the locked capture sequence inside the caller's
// transaction: wallet row lock, credit-limit check, status transition, balance
// update, ledger insert, and sender notification enqueue. The wallet lock is
// always taken after the delivery lock to keep lock ordering consistent.
//
// The ledger's uniqueness constraint on (courier, delivery, entry type) is the
// final defense against a double debit: if two transactions both pass the
// balance check, the second insert fails and that transaction aborts.
func captureAndDebit(
	ctx context.Context,
	uow CaptureUoW,
	planner services.NotificationPlanner,
	d *delivery.Delivery,
	courierID kernel.UUID,
	now time.Time,
) error {
	w, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, courierID)
	if err != nil {
		return err
	}

	if err = d.Capture(courierID, now); err != nil {
		return err
	}

	entry, err := w.DebitForCapture(d.ID(), d.Fee(), now)
	if err != nil {
		return err
	}

	if err = uow.WalletRepository().Update(ctx, w); err != nil {
		return err
	}
	if err = uow.WalletRepository().AddLedgerEntry(ctx, entry); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	notice, err := planner.PlanCaptureNotice(d, now)
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, notice)
}
