package services

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"
)

// Message type tags carried by outbox rows. The notification-sending
// collaborator formats per-platform text from these tags and the payload;
// the core never does text formatting.
const (
	MessageTypeDeliveryCreated   = "delivery_created"
	MessageTypeDeliveryCaptured  = "delivery_captured"
	MessageTypeDeliveryReleased  = "delivery_released"
	MessageTypeDeliveryCompleted = "delivery_completed"
	MessageTypeRequestCreated    = "request_created"
	MessageTypeRequestApproved   = "request_approved"
	MessageTypeRequestRejected   = "request_rejected"
	MessageTypeStationClosedCard = "station_closed_card"
)

// NotificationPlanner is a domain service that turns workflow events into
// outbox messages. It concentrates the payload shapes in one place so the
// persisted row shape stays a stable contract with the sending collaborator.
//
// Payloads reference deliveries only by their public token, never by raw ID.
type NotificationPlanner struct {
	platform   outbox.Platform
	maxRetries int
}

// NewNotificationPlanner creates a planner targeting the given platform.
func NewNotificationPlanner(platform outbox.Platform, maxRetries int) NotificationPlanner {
	return NotificationPlanner{
		platform:   platform,
		maxRetries: maxRetries,
	}
}

type deliveryPayload struct {
	Token         string `json:"token"`
	Status        string `json:"status"`
	Fee           string `json:"fee"`
	PickupStreet  string `json:"pickup_street"`
	DropoffStreet string `json:"dropoff_street"`
}

type decisionPayload struct {
	Token    string `json:"token"`
	Decision string `json:"decision"`
	Fee      string `json:"fee"`
}

func (p NotificationPlanner) payloadFor(d *delivery.Delivery) (json.RawMessage, error) {
	return json.Marshal(deliveryPayload{
		Token:         d.Token().String(),
		Status:        d.Status().String(),
		Fee:           d.Fee().String(),
		PickupStreet:  d.Pickup().Street(),
		DropoffStreet: d.Dropoff().Street(),
	})
}

func (p NotificationPlanner) plan(
	recipient, messageType string,
	payload json.RawMessage,
	now time.Time,
) (*outbox.Message, error) {
	return outbox.NewMessage(
		kernel.NewUUID(),
		p.platform,
		recipient,
		messageType,
		payload,
		p.maxRetries,
		now,
	)
}

// PlanDeliveryCreated announces a freshly posted delivery to all active
// couriers on the platform.
func (p NotificationPlanner) PlanDeliveryCreated(
	d *delivery.Delivery, now time.Time,
) (*outbox.Message, error) {
	payload, err := p.payloadFor(d)
	if err != nil {
		return nil, err
	}
	return p.plan(outbox.BroadcastRecipient, MessageTypeDeliveryCreated, payload, now)
}

// PlanCaptureNotice notifies the sender that a courier captured their delivery.
func (p NotificationPlanner) PlanCaptureNotice(
	d *delivery.Delivery, now time.Time,
) (*outbox.Message, error) {
	payload, err := p.payloadFor(d)
	if err != nil {
		return nil, err
	}
	return p.plan(d.SenderID().String(), MessageTypeDeliveryCaptured, payload, now)
}

// PlanReleaseNotice notifies the sender that the courier released their delivery
// back to the open pool.
func (p NotificationPlanner) PlanReleaseNotice(
	d *delivery.Delivery, now time.Time,
) (*outbox.Message, error) {
	payload, err := p.payloadFor(d)
	if err != nil {
		return nil, err
	}
	return p.plan(d.SenderID().String(), MessageTypeDeliveryReleased, payload, now)
}

// PlanCompletionNotice notifies the sender that their delivery arrived.
func (p NotificationPlanner) PlanCompletionNotice(
	d *delivery.Delivery, now time.Time,
) (*outbox.Message, error) {
	payload, err := p.payloadFor(d)
	if err != nil {
		return nil, err
	}
	return p.plan(d.SenderID().String(), MessageTypeDeliveryCompleted, payload, now)
}

// PlanRequestNotice alerts the station's private channel that a courier is
// waiting for a decision.
func (p NotificationPlanner) PlanRequestNotice(
	d *delivery.Delivery,
	channelChatID string,
	now time.Time,
) (*outbox.Message, error) {
	payload, err := p.payloadFor(d)
	if err != nil {
		return nil, err
	}
	return p.plan(channelChatID, MessageTypeRequestCreated, payload, now)
}

// PlanDecisionNotice notifies the requesting courier of the dispatcher's
// decision on their request.
func (p NotificationPlanner) PlanDecisionNotice(
	d *delivery.Delivery,
	courierChatID string,
	approved bool,
	now time.Time,
) (*outbox.Message, error) {
	messageType := MessageTypeRequestRejected
	decision := delivery.DecisionRejected
	if approved {
		messageType = MessageTypeRequestApproved
		decision = delivery.DecisionApproved
	}

	payload, err := json.Marshal(decisionPayload{
		Token:    d.Token().String(),
		Decision: decision.String(),
		Fee:      d.Fee().String(),
	})
	if err != nil {
		return nil, err
	}
	return p.plan(courierChatID, messageType, payload, now)
}

// PlanClosedCard summarizes a decided request to the station's private channel.
func (p NotificationPlanner) PlanClosedCard(
	d *delivery.Delivery,
	channelChatID string,
	now time.Time,
) (*outbox.Message, error) {
	payload, err := json.Marshal(decisionPayload{
		Token:    d.Token().String(),
		Decision: d.DispatcherDecision().String(),
		Fee:      d.Fee().String(),
	})
	if err != nil {
		return nil, err
	}
	return p.plan(channelChatID, MessageTypeStationClosedCard, payload, now)
}
