package queries

import (
	"context"

	"dispatch/internal/core/domain/model/outbox"

	"gorm.io/gorm"
)

// GetOutboxBacklogQueryHandler reads the outbox status distribution. A growing
// pending count or any failed rows are the operational signal that the
// messaging channel needs attention.
type GetOutboxBacklogQueryHandler struct {
	db *gorm.DB
}

// NewGetOutboxBacklogQueryHandler creates a handler for outbox summary queries.
func NewGetOutboxBacklogQueryHandler(db *gorm.DB) GetOutboxBacklogQueryHandler {
	return GetOutboxBacklogQueryHandler{db: db}
}

// Handle executes the query and returns one row per status present.
func (h GetOutboxBacklogQueryHandler) Handle(
	ctx context.Context,
	query GetOutboxBacklogQuery,
) ([]GetOutboxBacklogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	summary := make([]GetOutboxBacklogQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*)
		FROM outbox_messages
		GROUP BY status
		ORDER BY status
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status outbox.Status
		var count int64

		if err = rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		summary = append(summary, GetOutboxBacklogQueryResponse{
			Status: status.String(),
			Count:  count,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}
