package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetLedgerHistoryQueryHandler reads a courier's append-only ledger from the
// database. Entries come back newest first.
type GetLedgerHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetLedgerHistoryQueryHandler creates a handler for ledger history queries.
func NewGetLedgerHistoryQueryHandler(db *gorm.DB) GetLedgerHistoryQueryHandler {
	return GetLedgerHistoryQueryHandler{db: db}
}

// Handle executes the query for the courier named in it.
func (h GetLedgerHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetLedgerHistoryQuery,
) ([]GetLedgerHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetLedgerHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			entry_type,
			amount,
			balance_after,
			description,
			delivery_id,
			created_at
		FROM wallet_ledger_entries
		WHERE courier_id = ?
		ORDER BY created_at DESC
	`, query.CourierID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetLedgerHistoryQueryResponse
		var entryType wallet.EntryType
		var deliveryID *uuid.UUID

		err = rows.Scan(
			&entryType,
			&resp.Amount,
			&resp.BalanceAfter,
			&resp.Description,
			&deliveryID,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.EntryType = entryType.String()
		if deliveryID != nil {
			id, idErr := kernel.UUIDFromBytes((*deliveryID)[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.DeliveryID = &id
		}

		entries = append(entries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
