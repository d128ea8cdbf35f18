// Package outboxrepo provides data transfer objects and mapping functions for outbox persistence.
// Outbox rows are written in the same transaction as the business change they
// announce and drained asynchronously by the dispatch worker.
package outboxrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// MessageDTO represents the database structure for persisting outbox messages.
// Status and next_retry_at are indexed together because the worker's claim
// query filters on both.
type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Platform    int        `gorm:"type:int;not null"`
	Recipient   string     `gorm:"type:varchar(64);not null"`
	MessageType string     `gorm:"type:varchar(64);not null"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	Status      int        `gorm:"type:int;not null;index:idx_outbox_claim"`
	RetryCount  int        `gorm:"type:int;not null"`
	MaxRetries  int        `gorm:"type:int;not null"`
	NextRetryAt *time.Time `gorm:"index:idx_outbox_claim"`
	LastError   string     `gorm:"type:varchar(512)"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	SentAt      *time.Time
}

// TableName specifies the database table name for outbox message entities.
func (MessageDTO) TableName() string {
	return "outbox_messages"
}

// fromDomain converts an outbox message to its database representation.
func fromDomain(m *outbox.Message) MessageDTO {
	return MessageDTO{
		ID:          m.ID().Bytes(),
		Platform:    int(m.Platform()),
		Recipient:   m.Recipient(),
		MessageType: m.MessageType(),
		Payload:     m.Payload(),
		Status:      int(m.Status()),
		RetryCount:  m.RetryCount(),
		MaxRetries:  m.MaxRetries(),
		NextRetryAt: m.NextRetryAt(),
		LastError:   m.LastError(),
		CreatedAt:   m.CreatedAt(),
		SentAt:      m.SentAt(),
	}
}

// toDomain converts a database DTO to an outbox message using RestoreMessage.
func toDomain(dto MessageDTO) (*outbox.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return outbox.RestoreMessage(
		id,
		outbox.Platform(dto.Platform),
		dto.Recipient,
		dto.MessageType,
		json.RawMessage(dto.Payload),
		outbox.Status(dto.Status),
		dto.RetryCount,
		dto.MaxRetries,
		dto.NextRetryAt,
		dto.LastError,
		dto.CreatedAt,
		dto.SentAt,
	)
}
