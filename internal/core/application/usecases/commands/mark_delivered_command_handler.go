package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// MarkDeliveredCommandHandler handles delivery completion. The status
// transition, the station's commission credit for station-affiliated
// deliveries with a positive fee, and the completion notice to the sender
// commit as one transaction.
//
// The live update to connected dashboards runs after commit as a best-effort
// step: its failure is logged, never raised, so a broken push channel cannot
// unwind a completed delivery.
type MarkDeliveredCommandHandler struct {
	uowFactory CompletionUoWFactory
	planner    services.NotificationPlanner
	publisher  ports.LivePublisher
	logger     *slog.Logger
}

// NewMarkDeliveredCommandHandler creates a handler for completion operations.
// publisher may be nil when no live channel is configured.
func NewMarkDeliveredCommandHandler(
	uowFactory CompletionUoWFactory,
	planner services.NotificationPlanner,
	publisher ports.LivePublisher,
	logger *slog.Logger,
) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		publisher:  publisher,
		logger:     logger.With("component", "mark_delivered"),
	}
}

// Handle processes the completion command. Legal from Captured or InProgress.
func (h MarkDeliveredCommandHandler) Handle(
	ctx context.Context, cmd MarkDeliveredCommand,
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

	now := time.Now().UTC()
	if err = d.MarkDelivered(now); err != nil {
		return resolve(err)
	}

	if d.IsStationAffiliated() && d.Fee().IsPositive() {
		sw, err := uow.StationWalletRepository().GetOrCreateForUpdate(ctx, *d.StationID())
		if err != nil {
			return Result{}, err
		}
		sw.CreditCommission(d.Fee())
		if err = uow.StationWalletRepository().Update(ctx, sw); err != nil {
			return Result{}, err
		}
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return Result{}, err
	}

	notice, err := h.planner.PlanCompletionNotice(d, now)
	if err != nil {
		return Result{}, err
	}
	if err = uow.OutboxRepository().Add(ctx, notice); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	h.publishLiveUpdate(ctx, d.Token().String(), d.Status().String())

	return succeeded(d), nil
}

func (h MarkDeliveredCommandHandler) publishLiveUpdate(ctx context.Context, token, status string) {
	if h.publisher == nil {
		return
	}

	payload, err := json.Marshal(map[string]string{"token": token, "status": status})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to encode live update", "error", err)
		return
	}

	if err = h.publisher.Publish(ctx, "deliveries", payload); err != nil {
		h.logger.WarnContext(ctx, "failed to publish live update", "token", token, "error", err)
	}
}
