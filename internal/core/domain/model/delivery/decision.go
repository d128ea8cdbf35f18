package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Decision records the outcome of a dispatcher's review of a requested delivery.
type Decision int

const (
	// DecisionNone means no dispatcher decision has been made.
	DecisionNone Decision = iota

	// DecisionApproved means the dispatcher approved the requesting courier.
	DecisionApproved

	// DecisionRejected means the dispatcher rejected the request.
	DecisionRejected
)

func getDecisionStrings() map[Decision]string {
	return map[Decision]string{
		DecisionNone:     "None",
		DecisionApproved: "Approved",
		DecisionRejected: "Rejected",
	}
}

// Validate checks if the Decision value is one of the defined outcomes.
func (d Decision) Validate() error {
	if _, ok := getDecisionStrings()[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("decision is invalid",
			fmt.Errorf("%d is not a valid decision", d))
	}
	return nil
}

// String returns the human-readable name of the decision.
func (d Decision) String() string {
	if str, ok := getDecisionStrings()[d]; ok {
		return str
	}
	return "None"
}
