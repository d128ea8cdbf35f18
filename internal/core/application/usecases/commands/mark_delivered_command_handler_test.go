package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(_ context.Context, _ string, _ []byte) error {
	p.calls++
	return errors.New("push channel is down")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMarkDeliveredCommandHandler_Handle_StationCommission(t *testing.T) {
	ctx := t.Context()
	stationID := kernel.NewUUID()
	d := newOpenDelivery(t, &stationID, "20.00")
	require.NoError(t, d.Capture(kernel.NewUUID(), time.Now().UTC()))

	sw, err := wallet.NewStationWallet(stationID, decimal.RequireFromString("0.10"))
	require.NoError(t, err)

	cmd, err := commands.NewMarkDeliveredCommand(d.ID())
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	stationWallets := new(MockStationWalletRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("StationWalletRepository").Return(stationWallets)
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	deliveries.On("Update", ctx, d).Return(nil).Once()
	stationWallets.On("GetOrCreateForUpdate", ctx, stationID).Return(sw, nil).Once()
	stationWallets.On("Update", ctx, sw).Return(nil).Once()

	var notice *outbox.Message
	outboxRepo.On("Add", ctx, mock.AnythingOfType("*outbox.Message")).
		Run(func(args mock.Arguments) {
			notice = args.Get(1).(*outbox.Message)
		}).Return(nil).Once()

	h := commands.NewMarkDeliveredCommandHandler(completionUoWFactory{uow}, testPlanner(), nil, discardLogger())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, delivery.StatusDelivered, res.Delivery.Status())
	assert.NotNil(t, res.Delivery.DeliveredAt())
	assert.True(t, sw.Balance().Equal(decimal.RequireFromString("2.00")),
		"20.00 at 10%% commission must credit exactly 2.00, got %s", sw.Balance())

	require.NotNil(t, notice, "completion notice must be enqueued before commit")
	assert.Equal(t, services.MessageTypeDeliveryCompleted, notice.MessageType())
	assert.Equal(t, d.SenderID().String(), notice.Recipient())
	outboxRepo.AssertExpectations(t)
}

func TestMarkDeliveredCommandHandler_Handle_DirectDeliveryHasNoWalletSideEffect(t *testing.T) {
	ctx := t.Context()
	d := newOpenDelivery(t, nil, "15.00")
	require.NoError(t, d.Capture(kernel.NewUUID(), time.Now().UTC()))

	cmd, err := commands.NewMarkDeliveredCommand(d.ID())
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	stationWallets := new(MockStationWalletRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	deliveries.On("Update", ctx, d).Return(nil).Once()
	outboxRepo.On("Add", ctx, mock.AnythingOfType("*outbox.Message")).Return(nil).Once()

	h := commands.NewMarkDeliveredCommandHandler(completionUoWFactory{uow}, testPlanner(), nil, discardLogger())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	stationWallets.AssertNotCalled(t, "GetOrCreateForUpdate")
}

func TestMarkDeliveredCommandHandler_Handle_PublisherFailureIsNotFatal(t *testing.T) {
	ctx := t.Context()
	d := newOpenDelivery(t, nil, "15.00")
	require.NoError(t, d.Capture(kernel.NewUUID(), time.Now().UTC()))

	cmd, err := commands.NewMarkDeliveredCommand(d.ID())
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	deliveries.On("Update", ctx, d).Return(nil).Once()
	outboxRepo.On("Add", ctx, mock.AnythingOfType("*outbox.Message")).Return(nil).Once()

	publisher := &failingPublisher{}
	h := commands.NewMarkDeliveredCommandHandler(completionUoWFactory{uow}, testPlanner(), publisher, discardLogger())
	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err, "a failed live update must not fail the committed operation")
	assert.True(t, res.Succeeded)
	assert.Equal(t, 1, publisher.calls)
}

func TestMarkDeliveredCommandHandler_Handle_WrongStatus(t *testing.T) {
	ctx := t.Context()
	d := newOpenDelivery(t, nil, "15.00")

	cmd, err := commands.NewMarkDeliveredCommand(d.ID())
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveries)
	uow.On("Rollback", ctx).Return(nil).Once()
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

	h := commands.NewMarkDeliveredCommandHandler(completionUoWFactory{uow}, testPlanner(), nil, discardLogger())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, delivery.StatusOpen, d.Status())
	outboxRepo.AssertNotCalled(t, "Add")
}
