package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReleaseDeliveryCommandHandler_Handle_RestoresBalance(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newOpenDelivery(t, nil, "15.00")
	w := newWalletWithBalance(t, courierID, "100.00", "-50.00")

	// capture first, then release: the balance must return exactly to 100.00
	now := time.Now().UTC()
	require.NoError(t, d.Capture(courierID, now))
	_, err := w.DebitForCapture(d.ID(), d.Fee(), now)
	require.NoError(t, err)

	cmd, err := commands.NewReleaseDeliveryCommand(d.ID(), courierID)
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	wallets := new(MockWalletRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("WalletRepository").Return(wallets)
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	deliveries.On("Update", ctx, d).Return(nil).Once()
	wallets.On("GetOrCreateForUpdate", ctx, courierID).Return(w, nil).Once()
	wallets.On("Update", ctx, w).Return(nil).Once()
	wallets.On("AddLedgerEntry", ctx, mock.AnythingOfType("*wallet.LedgerEntry")).Return(nil).Once()
	outboxRepo.On("Add", ctx, mock.AnythingOfType("*outbox.Message")).Return(nil).Once()

	h := commands.NewReleaseDeliveryCommandHandler(captureUoWFactory{uow}, testPlanner())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, delivery.StatusOpen, res.Delivery.Status())
	assert.Nil(t, res.Delivery.Courier())
	assert.Nil(t, res.Delivery.CapturedAt())
	assert.True(t, w.Balance().Equal(decimal.RequireFromString("100.00")),
		"capture then release must restore the balance, got %s", w.Balance())
}

func TestReleaseDeliveryCommandHandler_Handle_NotOwner(t *testing.T) {
	ctx := t.Context()
	owner := kernel.NewUUID()
	stranger := kernel.NewUUID()
	d := newOpenDelivery(t, nil, "15.00")
	require.NoError(t, d.Capture(owner, time.Now().UTC()))
	w := newWalletWithBalance(t, stranger, "0.00", "-50.00")

	cmd, err := commands.NewReleaseDeliveryCommand(d.ID(), stranger)
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	wallets := new(MockWalletRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("WalletRepository").Return(wallets)
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	wallets.On("GetOrCreateForUpdate", ctx, stranger).Return(w, nil).Once()

	h := commands.NewReleaseDeliveryCommandHandler(captureUoWFactory{uow}, testPlanner())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Contains(t, res.Reason, "another courier")
	assert.Equal(t, delivery.StatusCaptured, d.Status())
	assert.True(t, w.Balance().IsZero())
}
