package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelDeliveryCommandHandler_Handle_CancelsOpen(t *testing.T) {
	ctx := t.Context()
	d := newOpenDelivery(t, nil, "15.00")
	cmd, err := commands.NewCancelDeliveryCommand(d.ID(), d.SenderID())
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	deliveries.On("Update", ctx, d).Return(nil).Once()

	h := commands.NewCancelDeliveryCommandHandler(deliveryUoWFactory{uow})
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, delivery.StatusCancelled, res.Delivery.Status())
}

func TestCancelDeliveryCommandHandler_Handle_NonOpenIsNoOp(t *testing.T) {
	ctx := t.Context()
	d := newOpenDelivery(t, nil, "15.00")
	require.NoError(t, d.Capture(kernel.NewUUID(), time.Now().UTC()))
	cmd, err := commands.NewCancelDeliveryCommand(d.ID(), d.SenderID())
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

	h := commands.NewCancelDeliveryCommandHandler(deliveryUoWFactory{uow})
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Succeeded, "cancelling a captured delivery is a silent no-op")
	assert.Equal(t, delivery.StatusCaptured, res.Delivery.Status())
	deliveries.AssertNotCalled(t, "Update", ctx, d)
}

func TestCancelDeliveryCommandHandler_Handle_WrongSender(t *testing.T) {
	ctx := t.Context()
	d := newOpenDelivery(t, nil, "15.00")
	cmd, err := commands.NewCancelDeliveryCommand(d.ID(), kernel.NewUUID())
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

	h := commands.NewCancelDeliveryCommandHandler(deliveryUoWFactory{uow})
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Contains(t, res.Reason, "another sender")
	assert.Equal(t, delivery.StatusOpen, d.Status())
}
