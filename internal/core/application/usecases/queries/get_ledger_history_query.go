package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetLedgerHistoryQueryIsNotConstructed = errors.New(
	"GetLedgerHistoryQuery must be created via NewGetLedgerHistoryQuery constructor",
)

// GetLedgerHistoryQuery retrieves a courier's financial history, newest first.
type GetLedgerHistoryQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetLedgerHistoryQuery creates a query for one courier's ledger.
func NewGetLedgerHistoryQuery(courierID kernel.UUID) (GetLedgerHistoryQuery, error) {
	q := GetLedgerHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setCourierID(courierID); err != nil {
		return GetLedgerHistoryQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetLedgerHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetLedgerHistoryQueryIsNotConstructed)
}

// CourierID returns the courier whose history is requested.
func (q GetLedgerHistoryQuery) CourierID() kernel.UUID { return q.courierID }

func (q *GetLedgerHistoryQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// GetLedgerHistoryQueryResponse represents one immutable ledger entry.
type GetLedgerHistoryQueryResponse struct {
	EntryType    string
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Description  string
	DeliveryID   *kernel.UUID
	CreatedAt    time.Time
}
