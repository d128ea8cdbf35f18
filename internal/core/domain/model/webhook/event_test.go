package webhook_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Run("starts processing", func(t *testing.T) {
		e, err := webhook.NewEvent("upd-1001", outbox.PlatformTelegram, time.Now())
		require.NoError(t, err)

		assert.Equal(t, webhook.StatusProcessing, e.Status())
		assert.False(t, e.BlocksReprocessing())
	})

	t.Run("requires message id", func(t *testing.T) {
		_, err := webhook.NewEvent("", outbox.PlatformTelegram, time.Now())
		require.ErrorIs(t, err, webhook.ErrMessageIDIsRequired)
	})

	t.Run("requires valid platform", func(t *testing.T) {
		_, err := webhook.NewEvent("upd-1001", outbox.PlatformUnknown, time.Now())
		require.Error(t, err)
	})
}

func TestEventIdempotencyRule(t *testing.T) {
	e, err := webhook.NewEvent("upd-1001", outbox.PlatformWhatsApp, time.Now())
	require.NoError(t, err)

	t.Run("completed blocks reprocessing", func(t *testing.T) {
		e.MarkCompleted()
		assert.True(t, e.BlocksReprocessing())
	})

	t.Run("failed permits retry", func(t *testing.T) {
		e.MarkFailed()
		assert.False(t, e.BlocksReprocessing())
	})

	t.Run("stale processing permits retry", func(t *testing.T) {
		e.Reclaim()
		assert.Equal(t, webhook.StatusProcessing, e.Status())
		assert.False(t, e.BlocksReprocessing())
	})
}
