package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/pkg/errs"
)

// Result is the outcome of a state-changing delivery operation. It separates
// the two expected, frequent outcomes from infrastructure errors:
//
//   - Succeeded=true: the transition committed; Delivery holds the new state.
//   - Succeeded=false: a business rule blocked the transition (wrong status,
//     wrong owner, insufficient credit, not found); Reason explains which one.
//     The transaction rolled back and no state changed.
//
// Infrastructure failures (lock timeout, connection loss, constraint
// violation) are returned as the error instead, never folded into Result.
type Result struct {
	Succeeded bool
	Reason    string
	Delivery  *delivery.Delivery
}

func succeeded(d *delivery.Delivery) Result {
	return Result{Succeeded: true, Delivery: d}
}

// resolve folds an operation error into the tri-value outcome: typed business
// failures and not-found become an unsucceeded Result, anything else stays an
// error for the caller to surface or retry.
func resolve(err error) (Result, error) {
	if errors.Is(err, errs.ErrDomainRule) || errors.Is(err, errs.ErrObjectNotFound) {
		return Result{Succeeded: false, Reason: err.Error()}, nil
	}
	return Result{}, err
}
