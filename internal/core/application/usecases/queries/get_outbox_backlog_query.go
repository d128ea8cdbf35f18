package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetOutboxBacklogQueryIsNotConstructed = errors.New(
	"GetOutboxBacklogQuery must be created via NewGetOutboxBacklogQuery constructor",
)

// GetOutboxBacklogQuery summarizes the outbox for operational monitoring:
// how many messages sit in each delivery status.
type GetOutboxBacklogQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOutboxBacklogQuery creates a query for the outbox summary.
func NewGetOutboxBacklogQuery() GetOutboxBacklogQuery {
	return GetOutboxBacklogQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOutboxBacklogQuery) Validate() error {
	return q.guard.Validate(ErrGetOutboxBacklogQueryIsNotConstructed)
}

// GetOutboxBacklogQueryResponse represents the message count for one status.
type GetOutboxBacklogQueryResponse struct {
	Status string
	Count  int64
}
