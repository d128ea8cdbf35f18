package commands

import (
	"context"
	"time"
)

// AdjustWalletCommandHandler handles manual wallet adjustments. The balance
// change and its ledger entry commit together; manual entries carry no
// delivery reference, so the ledger's per-delivery uniqueness constraint does
// not limit how many adjustments a courier can receive.
type AdjustWalletCommandHandler struct {
	uowFactory WalletUoWFactory
}

// NewAdjustWalletCommandHandler creates a handler for manual adjustments.
func NewAdjustWalletCommandHandler(uowFactory WalletUoWFactory) AdjustWalletCommandHandler {
	return AdjustWalletCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the adjustment under an exclusive wallet row lock.
// Manual adjustments bypass the credit-limit floor.
func (h AdjustWalletCommandHandler) Handle(ctx context.Context, cmd AdjustWalletCommand) error {
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

	w, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	entry, err := w.AdjustManually(cmd.Amount(), cmd.Description(), time.Now().UTC())
	if err != nil {
		return err
	}

	if err = uow.WalletRepository().Update(ctx, w); err != nil {
		return err
	}
	if err = uow.WalletRepository().AddLedgerEntry(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
