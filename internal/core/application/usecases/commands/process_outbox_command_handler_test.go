package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu      sync.Mutex
	failFor map[string]error
	sent    []string
}

func (n *fakeNotifier) Send(_ context.Context, _ *outbox.Message, recipient string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[recipient]; ok {
		return err
	}
	n.sent = append(n.sent, recipient)
	return nil
}

func newPendingMessage(t *testing.T, recipient string) *outbox.Message {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"token": "tok"})
	require.NoError(t, err)

	msg, err := outbox.NewMessage(
		kernel.NewUUID(), outbox.PlatformTelegram, recipient,
		"delivery_created", payload, 5, time.Now().UTC())
	require.NoError(t, err)
	return msg
}

func newActiveCourier(t *testing.T, chatID string) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), "Rami", outbox.PlatformTelegram, chatID)
	require.NoError(t, err)
	return c
}

func TestProcessOutboxCommandHandler_Handle_SendsDirectAndBroadcast(t *testing.T) {
	ctx := t.Context()
	direct := newPendingMessage(t, "chat-1")
	broadcast := newPendingMessage(t, outbox.BroadcastRecipient)

	outboxRepo := new(MockOutboxRepository)
	couriers := new(MockCourierRepository)
	uow := new(MockUoW)

	// one claim transaction, one record transaction
	uow.On("Begin", ctx).Return(nil).Times(2)
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("CourierRepository").Return(couriers)
	uow.On("Commit", ctx).Return(nil).Times(2)
	uow.On("Rollback", ctx).Return(nil).Times(2)

	outboxRepo.On("ClaimPending", ctx, 10, mock.AnythingOfType("time.Time")).
		Return([]*outbox.Message{direct, broadcast}, nil).Once()
	outboxRepo.On("Update", ctx, mock.AnythingOfType("*outbox.Message")).Return(nil).Times(4)
	couriers.On("GetAllActiveByPlatform", ctx, outbox.PlatformTelegram).
		Return([]*courier.Courier{newActiveCourier(t, "chat-a"), newActiveCourier(t, "chat-b")}, nil).Once()

	// chat-a fails; partial broadcast success must still mark the message sent
	notifier := &fakeNotifier{failFor: map[string]error{"chat-a": errors.New("blocked")}}
	h := commands.NewProcessOutboxCommandHandler(
		outboxUoWFactory{uow},
		map[outbox.Platform]ports.Notifier{outbox.PlatformTelegram: notifier},
		10*time.Second, 600*time.Second, discardLogger())

	cmd, err := commands.NewProcessOutboxCommand(10)
	require.NoError(t, err)

	attempted, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, 2, attempted)
	assert.Equal(t, outbox.StatusSent, direct.Status())
	assert.Equal(t, outbox.StatusSent, broadcast.Status())
	assert.NotNil(t, broadcast.SentAt())
	assert.Contains(t, notifier.sent, "chat-1")
	assert.Contains(t, notifier.sent, "chat-b")
	uow.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
}

func TestProcessOutboxCommandHandler_Handle_FailureBacksOff(t *testing.T) {
	ctx := t.Context()
	msg := newPendingMessage(t, "chat-1")

	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Times(2)
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Commit", ctx).Return(nil).Times(2)
	uow.On("Rollback", ctx).Return(nil).Times(2)
	outboxRepo.On("ClaimPending", ctx, 10, mock.AnythingOfType("time.Time")).
		Return([]*outbox.Message{msg}, nil).Once()
	outboxRepo.On("Update", ctx, msg).Return(nil).Times(2)

	notifier := &fakeNotifier{failFor: map[string]error{"chat-1": errors.New("timeout")}}
	h := commands.NewProcessOutboxCommandHandler(
		outboxUoWFactory{uow},
		map[outbox.Platform]ports.Notifier{outbox.PlatformTelegram: notifier},
		10*time.Second, 600*time.Second, discardLogger())

	cmd, err := commands.NewProcessOutboxCommand(10)
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.NoError(t, err, "send failures are recorded, never returned")

	assert.Equal(t, outbox.StatusPending, msg.Status())
	assert.Equal(t, 1, msg.RetryCount())
	assert.Equal(t, "timeout", msg.LastError())
	require.NotNil(t, msg.NextRetryAt())
	assert.False(t, msg.IsDue(time.Now().UTC()))
}

func TestProcessOutboxCommandHandler_Handle_ExhaustedRetriesFailTerminally(t *testing.T) {
	ctx := t.Context()
	msg, err := outbox.RestoreMessage(
		kernel.NewUUID(), outbox.PlatformTelegram, "chat-1", "delivery_created",
		nil, outbox.StatusPending, 4, 5, nil, "earlier timeout",
		time.Now().UTC().Add(-time.Hour), nil)
	require.NoError(t, err)

	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Times(2)
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Commit", ctx).Return(nil).Times(2)
	uow.On("Rollback", ctx).Return(nil).Times(2)
	outboxRepo.On("ClaimPending", ctx, 10, mock.AnythingOfType("time.Time")).
		Return([]*outbox.Message{msg}, nil).Once()
	outboxRepo.On("Update", ctx, msg).Return(nil).Times(2)

	notifier := &fakeNotifier{failFor: map[string]error{"chat-1": errors.New("still down")}}
	h := commands.NewProcessOutboxCommandHandler(
		outboxUoWFactory{uow},
		map[outbox.Platform]ports.Notifier{outbox.PlatformTelegram: notifier},
		10*time.Second, 600*time.Second, discardLogger())

	cmd, err := commands.NewProcessOutboxCommand(10)
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, outbox.StatusFailed, msg.Status())
	assert.Equal(t, 5, msg.RetryCount())
	assert.Nil(t, msg.NextRetryAt())
}

func TestProcessOutboxCommandHandler_Handle_EmptyBacklog(t *testing.T) {
	ctx := t.Context()

	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OutboxRepository").Return(outboxRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	outboxRepo.On("ClaimPending", ctx, 10, mock.AnythingOfType("time.Time")).
		Return([]*outbox.Message{}, nil).Once()

	h := commands.NewProcessOutboxCommandHandler(
		outboxUoWFactory{uow},
		map[outbox.Platform]ports.Notifier{},
		10*time.Second, 600*time.Second, discardLogger())

	cmd, err := commands.NewProcessOutboxCommand(10)
	require.NoError(t, err)

	attempted, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Zero(t, attempted)
	uow.AssertNotCalled(t, "Commit", ctx)
}
