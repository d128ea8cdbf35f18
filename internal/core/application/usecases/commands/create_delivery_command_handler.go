package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/services"
)

// CreateDeliveryCommandHandler handles the business logic for posting new
// deliveries. The delivery and its broadcast announcement are persisted in one
// transaction, so a committed delivery always has its notification queued.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	planner    services.NotificationPlanner
}

// NewCreateDeliveryCommandHandler creates a handler for delivery creation.
func NewCreateDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	planner services.NotificationPlanner,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes the delivery creation command.
// Creates the delivery in Open status with a fresh public token and enqueues
// the broadcast announcement in the same transaction.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pickup, err := delivery.NewAddress(cmd.Pickup().Street, cmd.Pickup().Contact, cmd.Pickup().Phone)
	if err != nil {
		return err
	}
	dropoff, err := delivery.NewAddress(cmd.Dropoff().Street, cmd.Dropoff().Contact, cmd.Dropoff().Phone)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	d, err := delivery.NewDelivery(
		cmd.DeliveryID(), cmd.SenderID(), cmd.StationID(), pickup, dropoff, cmd.Fee(), now)
	if err != nil {
		return err
	}

	announcement, err := h.planner.PlanDeliveryCreated(d, now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return err
	}

	if err = uow.OutboxRepository().Add(ctx, announcement); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
