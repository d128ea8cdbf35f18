package outbox

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an outbox message.
//
// State transitions:
//
//	Pending ──> Processing ──┬──> Sent
//	   ^                     ├──> Pending (retry with backoff)
//	   └─────────────────────┘
//	                         └──> Failed (retries exhausted)
//
// Sent and Failed are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending means the message is waiting to be picked up by a worker.
	StatusPending

	// StatusProcessing means a worker has claimed the message for delivery.
	StatusProcessing

	// StatusSent means the message was delivered. Terminal.
	StatusSent

	// StatusFailed means delivery was abandoned after exhausting retries. Terminal.
	StatusFailed
)

// ErrNotPending is raised when a worker tries to claim a message that is not
// waiting for delivery.
var ErrNotPending = errs.NewDomainRuleError("outbox message is not pending")

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "Unknown",
		StatusPending:    "Pending",
		StatusProcessing: "Processing",
		StatusSent:       "Sent",
		StatusFailed:     "Failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:    "Pending",
		StatusProcessing: "Processing",
		StatusSent:       "Sent",
		StatusFailed:     "Failed",
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid outbox status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
