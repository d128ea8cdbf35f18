// Package queries contains read-only operations that bypass the domain layer.
// Implements the Query side of the CQRS architecture: each handler reads
// directly from the database and returns flat response DTOs, never aggregates.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOpenDeliveriesQueryIsNotConstructed = errors.New(
	"GetOpenDeliveriesQuery must be created via NewGetOpenDeliveriesQuery constructor",
)

// GetOpenDeliveriesQuery retrieves all deliveries currently available for
// capture, for the courier-facing board.
type GetOpenDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOpenDeliveriesQuery creates a query for the open delivery board.
func NewGetOpenDeliveriesQuery() GetOpenDeliveriesQuery {
	return GetOpenDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOpenDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenDeliveriesQueryIsNotConstructed)
}

// GetOpenDeliveriesQueryResponse represents one open delivery on the board.
// Deliveries are exposed by token, never by raw identifier.
type GetOpenDeliveriesQueryResponse struct {
	Token         string
	Fee           decimal.Decimal
	PickupStreet  string
	DropoffStreet string
	StationID     *kernel.UUID
}
