// Package stationrepo provides data transfer objects and mapping functions for station persistence.
// This package implements the repository pattern for the station domain aggregate, handling
// the conversion between domain entities and database representations.
package stationrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/station"

	"github.com/google/uuid"
)

// StationDTO represents the database structure for persisting station aggregates.
// Dispatchers and blacklisted couriers live in child tables with cascading deletes.
type StationDTO struct {
	ID                  uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Name                string               `gorm:"type:varchar(255);not null"`
	ChannelChatID       string               `gorm:"type:varchar(64)"`
	Dispatchers         []DispatcherDTO      `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE"`
	BlacklistedCouriers []BlacklistedCourier `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for station entities.
// Overrides GORM's default naming convention to use "stations".
func (StationDTO) TableName() string {
	return "stations"
}

// DispatcherDTO represents one dispatcher authorized to decide approval
// requests for a station.
type DispatcherDTO struct {
	StationID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	DispatcherID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName specifies the database table name for dispatcher entities.
func (DispatcherDTO) TableName() string {
	return "station_dispatchers"
}

// BlacklistedCourier represents one courier barred from requesting the
// station's deliveries.
type BlacklistedCourier struct {
	StationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName specifies the database table name for blacklist entities.
func (BlacklistedCourier) TableName() string {
	return "station_blacklisted_couriers"
}

// fromDomain converts a station domain aggregate to its database representation.
func fromDomain(s *station.Station) StationDTO {
	stationID := s.ID().Bytes()

	dispatchers := make([]DispatcherDTO, 0, len(s.Dispatchers()))
	for _, id := range s.Dispatchers() {
		dispatchers = append(dispatchers, DispatcherDTO{
			StationID:    stationID,
			DispatcherID: id.Bytes(),
		})
	}

	blacklisted := make([]BlacklistedCourier, 0, len(s.BlacklistedCouriers()))
	for _, id := range s.BlacklistedCouriers() {
		blacklisted = append(blacklisted, BlacklistedCourier{
			StationID: stationID,
			CourierID: id.Bytes(),
		})
	}

	return StationDTO{
		ID:                  stationID,
		Name:                s.Name(),
		ChannelChatID:       s.ChannelChatID(),
		Dispatchers:         dispatchers,
		BlacklistedCouriers: blacklisted,
	}
}

// toDomain converts a database DTO to a station domain aggregate.
// Reconstructs the complete aggregate including both membership lists using RestoreStation.
func toDomain(dto StationDTO) (*station.Station, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	dispatcherIDs := make([]kernel.UUID, 0, len(dto.Dispatchers))
	for _, d := range dto.Dispatchers {
		dispatcherID, dErr := kernel.UUIDFromBytes(d.DispatcherID[:])
		if dErr != nil {
			return nil, dErr
		}
		dispatcherIDs = append(dispatcherIDs, dispatcherID)
	}

	blacklistedIDs := make([]kernel.UUID, 0, len(dto.BlacklistedCouriers))
	for _, b := range dto.BlacklistedCouriers {
		courierID, bErr := kernel.UUIDFromBytes(b.CourierID[:])
		if bErr != nil {
			return nil, bErr
		}
		blacklistedIDs = append(blacklistedIDs, courierID)
	}

	return station.RestoreStation(id, dto.Name, dto.ChannelChatID, dispatcherIDs, blacklistedIDs)
}
