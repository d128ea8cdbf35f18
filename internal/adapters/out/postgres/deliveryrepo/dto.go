// Package deliveryrepo provides data transfer objects and mapping functions for delivery persistence.
// This package implements the repository pattern for the delivery domain aggregate, handling
// the conversion between domain entities and database representations.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryDTO represents the database structure for persisting delivery aggregates.
// The token carries a unique index because it is the public lookup key for
// capture-by-token and all messaging payloads.
type DeliveryDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Token               string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	SenderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	StationID           *uuid.UUID      `gorm:"type:uuid;index"`
	Pickup              AddressDTO      `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff             AddressDTO      `gorm:"embedded;embeddedPrefix:dropoff_"`
	Fee                 decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status              int             `gorm:"type:int;not null;index"`
	CourierID           *uuid.UUID      `gorm:"type:uuid;index"`
	RequestingCourierID *uuid.UUID      `gorm:"type:uuid"`
	ApproverID          *uuid.UUID      `gorm:"type:uuid"`
	Decision            int             `gorm:"type:int;not null"`
	CreatedAt           time.Time       `gorm:"not null"`
	RequestedAt         *time.Time
	DecidedAt           *time.Time
	CapturedAt          *time.Time
	DeliveredAt         *time.Time
}

// TableName specifies the database table name for delivery entities.
// Overrides GORM's default naming convention to use "deliveries".
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// AddressDTO represents an embedded pickup or dropoff address within the delivery table.
type AddressDTO struct {
	Street  string `gorm:"type:varchar(255);not null"`
	Contact string `gorm:"type:varchar(255)"`
	Phone   string `gorm:"type:varchar(32)"`
}

// fromDomain converts a delivery domain aggregate to its database representation.
func fromDomain(d *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:                  d.ID().Bytes(),
		Token:               d.Token().String(),
		SenderID:            d.SenderID().Bytes(),
		StationID:           optionalUUID(d.StationID()),
		Pickup:              addressFromDomain(d.Pickup()),
		Dropoff:             addressFromDomain(d.Dropoff()),
		Fee:                 d.Fee(),
		Status:              int(d.Status()),
		CourierID:           optionalUUID(d.Courier()),
		RequestingCourierID: optionalUUID(d.RequestingCourier()),
		ApproverID:          optionalUUID(d.Approver()),
		Decision:            int(d.DispatcherDecision()),
		CreatedAt:           d.CreatedAt(),
		RequestedAt:         d.RequestedAt(),
		DecidedAt:           d.DecidedAt(),
		CapturedAt:          d.CapturedAt(),
		DeliveredAt:         d.DeliveredAt(),
	}
}

// toDomain converts a database DTO to a delivery domain aggregate.
// Reconstructs the complete aggregate including approval state using RestoreDelivery.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	token, err := kernel.TokenFromString(dto.Token)
	if err != nil {
		return nil, err
	}

	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}

	stationID, err := optionalKernelUUID(dto.StationID)
	if err != nil {
		return nil, err
	}

	courierID, err := optionalKernelUUID(dto.CourierID)
	if err != nil {
		return nil, err
	}

	requestingCourierID, err := optionalKernelUUID(dto.RequestingCourierID)
	if err != nil {
		return nil, err
	}

	approverID, err := optionalKernelUUID(dto.ApproverID)
	if err != nil {
		return nil, err
	}

	pickup, err := addressToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}

	dropoff, err := addressToDomain(dto.Dropoff)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		id,
		token,
		senderID,
		stationID,
		pickup,
		dropoff,
		dto.Fee,
		delivery.Status(dto.Status),
		courierID,
		requestingCourierID,
		approverID,
		delivery.Decision(dto.Decision),
		dto.CreatedAt,
		dto.RequestedAt,
		dto.DecidedAt,
		dto.CapturedAt,
		dto.DeliveredAt,
	)
}

func addressFromDomain(a delivery.Address) AddressDTO {
	return AddressDTO{
		Street:  a.Street(),
		Contact: a.Contact(),
		Phone:   a.Phone(),
	}
}

func addressToDomain(dto AddressDTO) (delivery.Address, error) {
	return delivery.NewAddress(dto.Street, dto.Contact, dto.Phone)
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}

	raw := id.Bytes()
	return &raw
}

func optionalKernelUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil //absent optional reference
	}

	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}

	return &id, nil
}
