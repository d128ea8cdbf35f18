// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// Platform and chat identifier together address the courier on the messaging
// side; both carry indexes because broadcast fan-out queries on them.
type CourierDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Platform int       `gorm:"type:int;not null;index"`
	ChatID   string    `gorm:"type:varchar(64);not null"`
	Approved bool      `gorm:"not null"`
	Active   bool      `gorm:"not null;index"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:       c.ID().Bytes(),
		Name:     c.Name(),
		Platform: int(c.Platform()),
		ChatID:   c.ChatID(),
		Approved: c.IsApproved(),
		Active:   c.IsActive(),
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, outbox.Platform(dto.Platform), dto.ChatID, dto.Approved, dto.Active)
}
