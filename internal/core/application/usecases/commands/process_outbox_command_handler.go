package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// ProcessOutboxCommandHandler performs one polling pass of the outbox worker
// in three phases:
//
//  1. Claim: select due pending messages with skip-locked semantics, mark them
//     processing, and commit, so concurrent workers never share a message.
//  2. Send: perform the network delivery outside any transaction. Broadcast
//     messages fan out to all active couriers on the platform in parallel;
//     success of any recipient counts as delivery.
//  3. Record: commit the outcomes — sent with a timestamp, or a counted
//     failure that returns the message to pending with capped exponential
//     backoff until the attempt budget runs out.
//
// A send failure is never fatal to anything: it is captured, counted, and
// backed off.
type ProcessOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	notifiers  map[outbox.Platform]ports.Notifier
	base       time.Duration
	maxBackoff time.Duration
	logger     *slog.Logger
}

// NewProcessOutboxCommandHandler creates a handler for outbox worker passes.
// base and maxBackoff bound the retry backoff: min(base × 2^retries, maxBackoff).
func NewProcessOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	notifiers map[outbox.Platform]ports.Notifier,
	base time.Duration,
	maxBackoff time.Duration,
	logger *slog.Logger,
) ProcessOutboxCommandHandler {
	return ProcessOutboxCommandHandler{
		uowFactory: uowFactory,
		notifiers:  notifiers,
		base:       base,
		maxBackoff: maxBackoff,
		logger:     logger.With("component", "outbox_worker"),
	}
}

// Handle runs one pass and reports how many messages were attempted.
func (h ProcessOutboxCommandHandler) Handle(
	ctx context.Context, cmd ProcessOutboxCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	messages, recipients, err := h.claim(ctx, cmd.Limit(), now)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	outcomes := make(map[*outbox.Message]error, len(messages))
	for _, msg := range messages {
		outcomes[msg] = h.send(ctx, msg, recipients[msg.Platform()])
	}

	if err = h.record(ctx, outcomes); err != nil {
		return 0, err
	}

	return len(messages), nil
}

// claim marks up to limit due messages as processing in one transaction and
// resolves broadcast recipients for every platform seen in the batch.
func (h ProcessOutboxCommandHandler) claim(
	ctx context.Context, limit int, now time.Time,
) ([]*outbox.Message, map[outbox.Platform][]string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	messages, err := uow.OutboxRepository().ClaimPending(ctx, limit, now)
	if err != nil {
		return nil, nil, err
	}
	if len(messages) == 0 {
		return nil, nil, nil
	}

	recipients := make(map[outbox.Platform][]string)
	for _, msg := range messages {
		if err = msg.MarkProcessing(); err != nil {
			return nil, nil, err
		}
		if err = uow.OutboxRepository().Update(ctx, msg); err != nil {
			return nil, nil, err
		}

		if !msg.IsBroadcast() {
			continue
		}
		if _, ok := recipients[msg.Platform()]; ok {
			continue
		}

		couriers, err := uow.CourierRepository().GetAllActiveByPlatform(ctx, msg.Platform())
		if err != nil {
			return nil, nil, err
		}
		chatIDs := make([]string, 0, len(couriers))
		for _, c := range couriers {
			chatIDs = append(chatIDs, c.ChatID())
		}
		recipients[msg.Platform()] = chatIDs
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return messages, recipients, nil
}

// send attempts delivery of one claimed message. Returns nil when the message
// should be marked sent.
func (h ProcessOutboxCommandHandler) send(
	ctx context.Context, msg *outbox.Message, broadcastChatIDs []string,
) error {
	notifier, ok := h.notifiers[msg.Platform()]
	if !ok {
		return fmt.Errorf("no notifier configured for platform %s", msg.Platform())
	}

	if !msg.IsBroadcast() {
		return notifier.Send(ctx, msg, msg.Recipient())
	}

	if len(broadcastChatIDs) == 0 {
		return fmt.Errorf("no active couriers on platform %s", msg.Platform())
	}

	// Fan out in parallel. Partial success among broadcast recipients still
	// counts as delivered.
	var delivered atomic.Bool
	var group errgroup.Group
	for _, chatID := range broadcastChatIDs {
		group.Go(func() error {
			if err := notifier.Send(ctx, msg, chatID); err != nil {
				h.logger.WarnContext(ctx, "broadcast recipient failed",
					"message_id", msg.ID(), "recipient", chatID, "error", err)
				return err
			}
			delivered.Store(true)
			return nil
		})
	}

	err := group.Wait()
	if delivered.Load() {
		return nil
	}
	return err
}

// record commits the attempt outcomes in one transaction.
func (h ProcessOutboxCommandHandler) record(
	ctx context.Context, outcomes map[*outbox.Message]error,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	for msg, sendErr := range outcomes {
		if sendErr == nil {
			msg.MarkSent(now)
		} else {
			msg.RecordFailure(sendErr.Error(), h.base, h.maxBackoff, now)
			if msg.Status() == outbox.StatusFailed {
				h.logger.ErrorContext(ctx, "message failed terminally",
					"message_id", msg.ID(), "retries", msg.RetryCount(), "error", sendErr)
			}
		}

		if err := uow.OutboxRepository().Update(ctx, msg); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
