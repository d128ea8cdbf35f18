// Package webhookrepo provides data transfer objects and mapping functions for
// inbound webhook dedupe records. One row per (platform, message_id) pair.
package webhookrepo

import (
	"time"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/webhook"
)

// EventDTO represents the database structure for persisting webhook dedupe records.
// The composite primary key makes the first insert for a message the only one.
type EventDTO struct {
	Platform  int       `gorm:"type:int;primaryKey"`
	MessageID string    `gorm:"type:varchar(128);primaryKey"`
	Status    int       `gorm:"type:int;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for webhook event entities.
func (EventDTO) TableName() string {
	return "webhook_events"
}

// fromDomain converts a webhook event to its database representation.
func fromDomain(e *webhook.Event) EventDTO {
	return EventDTO{
		Platform:  int(e.Platform()),
		MessageID: e.MessageID(),
		Status:    int(e.Status()),
		CreatedAt: e.CreatedAt(),
	}
}

// toDomain converts a database DTO to a webhook event using RestoreEvent.
func toDomain(dto EventDTO) (*webhook.Event, error) {
	return webhook.RestoreEvent(
		dto.MessageID,
		outbox.Platform(dto.Platform),
		webhook.Status(dto.Status),
		dto.CreatedAt,
	)
}
