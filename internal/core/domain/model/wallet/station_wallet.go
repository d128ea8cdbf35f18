package wallet

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Commission rate bounds. Rates outside this range are a configuration error,
// not a business outcome.
var (
	commissionRateMin = decimal.RequireFromString("0.06")
	commissionRateMax = decimal.RequireFromString("0.12")
)

// ErrStationWalletIsNotConstructed is returned when a StationWallet was not
// created through NewStationWallet or RestoreStationWallet.
var ErrStationWalletIsNotConstructed = errors.New(
	"StationWallet must be created via NewStationWallet constructor")

// StationWallet accumulates commission for a dispatch station. It is credited
// by fee × commission rate when a station-affiliated delivery completes, inside
// the same transaction as the status transition.
type StationWallet struct {
	stationID      kernel.UUID
	balance        decimal.Decimal
	commissionRate decimal.Decimal

	isConstructed bool
}

// NewStationWallet creates a station wallet with a zero balance.
// The commission rate must lie in [0.06, 0.12].
func NewStationWallet(stationID kernel.UUID, commissionRate decimal.Decimal) (*StationWallet, error) {
	if err := stationID.Validate(); err != nil {
		return nil, err
	}
	if err := validateCommissionRate(commissionRate); err != nil {
		return nil, err
	}

	return &StationWallet{
		stationID:      stationID,
		balance:        decimal.Zero,
		commissionRate: commissionRate,
		isConstructed:  true,
	}, nil
}

// RestoreStationWallet reconstructs a station wallet from persistence.
func RestoreStationWallet(
	stationID kernel.UUID,
	balance decimal.Decimal,
	commissionRate decimal.Decimal,
) (*StationWallet, error) {
	if err := stationID.Validate(); err != nil {
		return nil, err
	}
	if err := validateCommissionRate(commissionRate); err != nil {
		return nil, err
	}

	return &StationWallet{
		stationID:      stationID,
		balance:        balance,
		commissionRate: commissionRate,
		isConstructed:  true,
	}, nil
}

func validateCommissionRate(rate decimal.Decimal) error {
	if rate.LessThan(commissionRateMin) || rate.GreaterThan(commissionRateMax) {
		return errs.NewValueIsOutOfRangeError(
			"commission rate", rate.String(), commissionRateMin.String(), commissionRateMax.String())
	}
	return nil
}

// Validate ensures the wallet was properly constructed.
func (w *StationWallet) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrStationWalletIsNotConstructed
	}
	return nil
}

// StationID returns the owning station's identifier.
func (w *StationWallet) StationID() kernel.UUID { return w.stationID }

// Balance returns the accumulated commission balance.
func (w *StationWallet) Balance() decimal.Decimal { return w.balance }

// CommissionRate returns the station's commission rate.
func (w *StationWallet) CommissionRate() decimal.Decimal { return w.commissionRate }

// CreditCommission credits the station its share of a completed delivery's fee
// and returns the credited amount.
func (w *StationWallet) CreditCommission(fee decimal.Decimal) decimal.Decimal {
	amount := fee.Mul(w.commissionRate)
	w.balance = w.balance.Add(amount)
	return amount
}
