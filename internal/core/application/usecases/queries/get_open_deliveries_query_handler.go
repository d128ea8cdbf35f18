package queries

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOpenDeliveriesQueryHandler reads the open delivery board from the
// database, newest first.
type GetOpenDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenDeliveriesQueryHandler creates a handler for open-board queries.
func NewGetOpenDeliveriesQueryHandler(db *gorm.DB) GetOpenDeliveriesQueryHandler {
	return GetOpenDeliveriesQueryHandler{db: db}
}

// Handle executes the query. Only deliveries in Open status appear on the board.
func (h GetOpenDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetOpenDeliveriesQuery,
) ([]GetOpenDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetOpenDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			token,
			fee,
			pickup_street,
			dropoff_street,
			station_id
		FROM deliveries
		WHERE status = ?
		ORDER BY created_at DESC
	`, delivery.StatusOpen).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenDeliveriesQueryResponse
		var fee decimal.Decimal
		var stationID *uuid.UUID

		err = rows.Scan(
			&resp.Token,
			&fee,
			&resp.PickupStreet,
			&resp.DropoffStreet,
			&stationID,
		)
		if err != nil {
			return nil, err
		}

		resp.Fee = fee
		if stationID != nil {
			id, idErr := kernel.UUIDFromBytes((*stationID)[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.StationID = &id
		}

		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
