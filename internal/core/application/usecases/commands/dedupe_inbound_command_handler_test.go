package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/webhook"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDedupeInboundCommandHandler_Handle_FirstSightProceeds(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDedupeInboundCommand(outbox.PlatformTelegram, "msg-1001")
	require.NoError(t, err)

	events := new(MockWebhookEventRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WebhookEventRepository").Return(events)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	events.On("Get", ctx, outbox.PlatformTelegram, "msg-1001").
		Return(nil, errs.NewObjectNotFoundError("message id", nil)).Once()
	events.On("Add", ctx, mock.AnythingOfType("*webhook.Event")).Return(nil).Once()

	h := commands.NewDedupeInboundCommandHandler(webhookUoWFactory{uow})
	proceed, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, proceed)
	events.AssertExpectations(t)
}

func TestDedupeInboundCommandHandler_Handle_CompletedBlocks(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDedupeInboundCommand(outbox.PlatformTelegram, "msg-1001")
	require.NoError(t, err)

	event, err := webhook.NewEvent("msg-1001", outbox.PlatformTelegram, time.Now().UTC())
	require.NoError(t, err)
	event.MarkCompleted()

	events := new(MockWebhookEventRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WebhookEventRepository").Return(events)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	events.On("Get", ctx, outbox.PlatformTelegram, "msg-1001").Return(event, nil).Once()

	h := commands.NewDedupeInboundCommandHandler(webhookUoWFactory{uow})
	proceed, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, proceed, "a completed record must short-circuit reprocessing")
	events.AssertNotCalled(t, "Update", ctx, event)
}

func TestDedupeInboundCommandHandler_Handle_StaleProcessingIsReclaimed(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDedupeInboundCommand(outbox.PlatformWhatsApp, "msg-2002")
	require.NoError(t, err)

	for _, prior := range []webhook.Status{webhook.StatusProcessing, webhook.StatusFailed} {
		event, err := webhook.RestoreEvent("msg-2002", outbox.PlatformWhatsApp, prior, time.Now().UTC())
		require.NoError(t, err)

		events := new(MockWebhookEventRepository)
		uow := new(MockUoW)

		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("WebhookEventRepository").Return(events)
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		events.On("Get", ctx, outbox.PlatformWhatsApp, "msg-2002").Return(event, nil).Once()
		events.On("Update", ctx, event).Return(nil).Once()

		h := commands.NewDedupeInboundCommandHandler(webhookUoWFactory{uow})
		proceed, err := h.Handle(ctx, cmd)
		require.NoError(t, err)

		assert.True(t, proceed, "status %s must permit a retry", prior)
		assert.Equal(t, webhook.StatusProcessing, event.Status())
	}
}

func TestResolveInboundCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("completed", func(t *testing.T) {
		cmd, err := commands.NewResolveInboundCommand(outbox.PlatformTelegram, "msg-1001", true)
		require.NoError(t, err)

		event, err := webhook.NewEvent("msg-1001", outbox.PlatformTelegram, time.Now().UTC())
		require.NoError(t, err)

		events := new(MockWebhookEventRepository)
		uow := new(MockUoW)

		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("WebhookEventRepository").Return(events)
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		events.On("Get", ctx, outbox.PlatformTelegram, "msg-1001").Return(event, nil).Once()
		events.On("Update", ctx, event).Return(nil).Once()

		h := commands.NewResolveInboundCommandHandler(webhookUoWFactory{uow})
		require.NoError(t, h.Handle(ctx, cmd))
		assert.Equal(t, webhook.StatusCompleted, event.Status())
	})

	t.Run("failed permits retry", func(t *testing.T) {
		cmd, err := commands.NewResolveInboundCommand(outbox.PlatformTelegram, "msg-1001", false)
		require.NoError(t, err)

		event, err := webhook.NewEvent("msg-1001", outbox.PlatformTelegram, time.Now().UTC())
		require.NoError(t, err)

		events := new(MockWebhookEventRepository)
		uow := new(MockUoW)

		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("WebhookEventRepository").Return(events)
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		events.On("Get", ctx, outbox.PlatformTelegram, "msg-1001").Return(event, nil).Once()
		events.On("Update", ctx, event).Return(nil).Once()

		h := commands.NewResolveInboundCommandHandler(webhookUoWFactory{uow})
		require.NoError(t, h.Handle(ctx, cmd))
		assert.Equal(t, webhook.StatusFailed, event.Status())
		assert.False(t, event.BlocksReprocessing())
	})
}
